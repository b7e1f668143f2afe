package dto

type ItemCreate struct {
	Title string `json:"title"`
}

type ItemRead struct {
	Title string `json:"title"`
}

type ItemOut struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
