package models

import "path"

// Question is the currently open question as pushed by question_opened.
type Question struct {
	Category    string   `json:"category"`
	Value       int      `json:"value"`
	Text        string   `json:"question"`
	Choices     []string `json:"choices,omitempty"`
	Answer      *int     `json:"answer,omitempty"` // stripped by the server in hidden-answer mode
	Image       string   `json:"image,omitempty"`
	ImageFolder string   `json:"image_folder,omitempty"`
	Cell        CellKey  `json:"cell"`
}

// ImagePath returns the server path of the question image, or "" when the
// question carries no usable image reference.
func (q *Question) ImagePath() string {
	if q == nil || q.Image == "" || q.ImageFolder == "" {
		return ""
	}
	return path.Join("/images", q.ImageFolder, q.Image)
}

// HasChoices reports whether answers can be picked locally.
func (q *Question) HasChoices() bool {
	return q != nil && len(q.Choices) > 0
}
