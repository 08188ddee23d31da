package domain

type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

type MonthlyRevenue struct {
	Month struct {
		Year  int `bson:"year" json:"year"`
		Month int `bson:"month" json:"month"`
	} `bson:"_id" json:"month"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Count   int64   `bson:"count" json:"count"`
}

// AdminStats is the dashboard snapshot assembled for the back office.
type AdminStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalCars     int64 `json:"totalCars"`
	TotalBookings int64 `json:"totalBookings"`

	PendingBookings   int64 `json:"pendingBookings"`
	ConfirmedBookings int64 `json:"confirmedBookings"`
	CompletedBookings int64 `json:"completedBookings"`
	CancelledBookings int64 `json:"cancelledBookings"`

	TotalRevenue float64 `json:"totalRevenue"`

	AvailableCars   int64 `json:"availableCars"`
	UnavailableCars int64 `json:"unavailableCars"`

	RecentBookings     []*BookingDetails `json:"recentBookings"`
	BookingsByCategory []CategoryCount   `json:"bookingsByCategory"`
	MonthlyRevenue     []MonthlyRevenue  `json:"monthlyRevenue"`
}
