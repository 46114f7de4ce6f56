package models

// Image references a file stored on the external media host. The PublicID is
// what the host needs to delete the asset later.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
