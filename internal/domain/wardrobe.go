package domain

// WardrobeItem is a garment the user can put on. Items are immutable once
// created and live for the whole session.
type WardrobeItem struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// PoseImages maps pose labels to image URLs and remembers insertion order so
// that "the first available image" is well defined.
type PoseImages struct {
	keys []string
	urls map[string]string
}

// NewPoseImages builds a mapping holding a single entry.
func NewPoseImages(label, url string) PoseImages {
	return PoseImages{}.With(label, url)
}

// Get returns the URL stored for label.
func (p PoseImages) Get(label string) (string, bool) {
	url, ok := p.urls[label]
	return url, ok
}

// First returns the earliest inserted URL.
func (p PoseImages) First() (string, bool) {
	if len(p.keys) == 0 {
		return "", false
	}
	return p.urls[p.keys[0]], true
}

// Keys returns the labels in insertion order.
func (p PoseImages) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len reports the number of stored poses.
func (p PoseImages) Len() int {
	return len(p.keys)
}

// With returns a copy of p with label set to url. The receiver is left
// untouched.
func (p PoseImages) With(label, url string) PoseImages {
	next := PoseImages{
		keys: make([]string, 0, len(p.keys)+1),
		urls: make(map[string]string, len(p.urls)+1),
	}
	next.keys = append(next.keys, p.keys...)
	for k, v := range p.urls {
		next.urls[k] = v
	}
	if _, exists := next.urls[label]; !exists {
		next.keys = append(next.keys, label)
	}
	next.urls[label] = url
	return next
}

// OutfitLayer is one step of the outfit history. The base layer has no
// garment.
type OutfitLayer struct {
	Garment    *WardrobeItem
	PoseImages PoseImages
}

// GarmentID returns the ID of the layer's garment or "" for the base layer.
func (l OutfitLayer) GarmentID() string {
	if l.Garment == nil {
		return ""
	}
	return l.Garment.ID
}
