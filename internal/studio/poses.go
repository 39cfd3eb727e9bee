package studio

// Poses are the camera instructions offered for every layer. The label is
// both the display key and the text sent to the image model.
var Poses = []string{
	"Full frontal view",
	"Slightly turned, 3/4 view",
	"Side profile view",
	"Energetic jump caught mid-air",
	"Dynamic pose walking towards the camera",
	"Relaxed stance leaning against a wall",
	"View from behind",
	"Hip out, hand in hair pose",
}

var poseNamesTR = map[string]string{
	"Full frontal view":                       "Önden Tam Görünüm",
	"Slightly turned, 3/4 view":               "Hafif Yana Dönük, 3/4 Poz",
	"Side profile view":                       "Yan Profil Poz",
	"Energetic jump caught mid-air":           "Havada Yakalanmış Enerjik Sıçrama",
	"Dynamic pose walking towards the camera": "Kameraya Doğru Yürürken Dinamik Poz",
	"Relaxed stance leaning against a wall":   "Duvara Yaslanmış Rahat Duruş",
	"View from behind":                        "Arkadan Görünüş",
	"Hip out, hand in hair pose":              "Kalça Dışa, El Saçta Poz",
}

// DisplayName returns the label shown for a pose in locale.
func DisplayName(label, locale string) string {
	if locale == "tr" {
		if name, ok := poseNamesTR[label]; ok {
			return name
		}
	}
	return label
}

// PoseIndex returns the position of label in Poses or -1.
func PoseIndex(label string) int {
	for i, p := range Poses {
		if p == label {
			return i
		}
	}
	return -1
}
