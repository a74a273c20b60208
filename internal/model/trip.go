package model

// Weather is the forecast snapshot pinned to the trip header.
type Weather struct {
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
	Advice    string  `json:"advice,omitempty"`
}

// TripInfo is the header block of the trip document.
type TripInfo struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Location string   `json:"location"`
	Weather  *Weather `json:"weather,omitempty"`
	AlbumURL string   `json:"album_url,omitempty"`
}
