package models

// PhotoRef is the server answer to a photo upload: the object path recorded
// as the log's image path.
type PhotoRef struct {
	Hash      string `json:"image_hash"`
	ImagePath string `json:"image_path"`
}
