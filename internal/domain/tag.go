package domain

type Tag struct {
	ID     int64  `json:"id"`
	Value  string `json:"value"`
	Status bool   `json:"status"`
	Sort   int    `json:"sort"`
}

type ShiftTag struct {
	ID     string `json:"id"`
	Status bool   `json:"status"`
	Tag    Tag    `json:"tag"`
}
