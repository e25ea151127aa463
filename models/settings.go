package models

type Settings struct {
	Banner string `bson:"banner" json:"banner"`
}

type Stats struct {
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}
