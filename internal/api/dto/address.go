package dto

type AddressLookupResponse struct {
	Address string   `json:"address"`
	Found   bool     `json:"found"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}
