package content

import "strings"

// ImageRef is what a client needs to load an option image.
type ImageRef struct {
	Key     string `json:"key"`
	Bundled bool   `json:"bundled"`
	Path    string `json:"path,omitempty"`
	URI     string `json:"uri,omitempty"`
}

const assetDir = "assets/images/"

var bundledImages = map[string]string{
	"medical_arm_1": "medical_arm_anatomy__e21fed4f.jpg",
	"medical_arm_2": "medical_arm_anatomy__83a4494f.jpg",
	"medical_arm_3": "medical_arm_anatomy__edff9499.jpg",
	"medical_arm_4": "medical_arm_anatomy__9fc8a3ca.jpg",
	"shoulder_1":    "shoulder_muscle_move_f3e6c7a6.jpg",
	"shoulder_2":    "shoulder_muscle_move_c67603ad.jpg",
	"shoulder_3":    "shoulder_muscle_move_fcf1de88.jpg",
	"shoulder_4":    "shoulder_muscle_move_56cb7ad4.jpg",
	"hand_nerve_1":  "hand_nerve_anatomy_m_68998d40.jpg",
	"hand_nerve_2":  "hand_nerve_anatomy_m_5afe3fc8.jpg",
	"hand_nerve_3":  "hand_nerve_anatomy_m_1511cfda.jpg",
	"hand_nerve_4":  "hand_nerve_anatomy_m_b77589af.jpg",
	"elbow_1":       "elbow_flexion_extens_6fba200b.jpg",
	"elbow_2":       "elbow_flexion_extens_467c87dc.jpg",
	"elbow_3":       "elbow_flexion_extens_f65de11a.jpg",
	"elbow_4":       "elbow_flexion_extens_e3e77a54.jpg",
}

// ResolveImage maps a symbolic image key to a bundled asset. Keys that are not
// bundled are handed back as URIs for the client to fetch.
func ResolveImage(key string) ImageRef {
	key = strings.TrimSpace(key)
	if file, ok := bundledImages[key]; ok {
		return ImageRef{Key: key, Bundled: true, Path: assetDir + file}
	}
	return ImageRef{Key: key, URI: key}
}
