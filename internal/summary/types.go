package summary

// CategoryTotal is the spend for one category over the requested window.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DailyTotal is the spend for one calendar day (YYYY-MM-DD).
type DailyTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// Response is the body of GET /api/summary.
// Categories and Daily keep the order the server sent them in.
type Response struct {
	Days       int             `json:"days"`
	Categories []CategoryTotal `json:"categories"`
	Daily      []DailyTotal    `json:"daily"`
	TotalSpent float64         `json:"total_spent,omitempty"`
}

// CategoryValues returns labels and totals in server order.
func (r Response) CategoryValues() ([]string, []float64) {
	labels := make([]string, len(r.Categories))
	values := make([]float64, len(r.Categories))
	for i, c := range r.Categories {
		labels[i] = c.Category
		values[i] = c.Total
	}
	return labels, values
}

// DailyValues returns dates and totals in server order.
func (r Response) DailyValues() ([]string, []float64) {
	dates := make([]string, len(r.Daily))
	values := make([]float64, len(r.Daily))
	for i, d := range r.Daily {
		dates[i] = d.Date
		values[i] = d.Total
	}
	return dates, values
}

// Total is the server's total_spent when present, else the category sum.
func (r Response) Total() float64 {
	if r.TotalSpent > 0 {
		return r.TotalSpent
	}
	var sum float64
	for _, c := range r.Categories {
		sum += c.Total
	}
	return sum
}

// TopCategory returns the category with the largest total. Ties keep the
// first in server order.
func (r Response) TopCategory() (CategoryTotal, bool) {
	var top CategoryTotal
	for i, c := range r.Categories {
		if i == 0 || c.Total > top.Total {
			top = c
		}
	}
	return top, len(r.Categories) > 0
}

// PeakDay returns the day with the largest total. Ties keep the earliest in
// server order.
func (r Response) PeakDay() (DailyTotal, bool) {
	var peak DailyTotal
	for i, d := range r.Daily {
		if i == 0 || d.Total > peak.Total {
			peak = d
		}
	}
	return peak, len(r.Daily) > 0
}
