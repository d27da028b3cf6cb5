package models

type PaginatedResponse struct {
	Data     any `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// AdminStats is the storefront-wide entity count summary.
type AdminStats struct {
	Users   int `json:"users"`
	Games   int `json:"games"`
	Devices int `json:"devices"`
	Orders  int `json:"orders"`
}

// DailyOrderStat is one day's order count and revenue.
type DailyOrderStat struct {
	Day     string `json:"day"`
	Orders  int    `json:"orders"`
	Revenue int64  `json:"revenue"`
}
