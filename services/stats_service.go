package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/sheelhammi/sheelhammi-api/models"
)

// Reporting periods
const (
	PeriodDay    = "day"
	PeriodMonth  = "month"
	PeriodYear   = "year"
	PeriodCustom = "custom"
)

// Stats is the admin dashboard summary
type Stats struct {
	Period string    `json:"period"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	TotalOrders    int64 `json:"total_orders"`
	FilteredOrders int64 `json:"filtered_orders"`

	TotalRevenue    float64 `json:"total_revenue"`    // SUM(total_price) over paid orders, all time
	FilteredRevenue float64 `json:"filtered_revenue"` // same, within the window
	EmployeeProfit  float64 `json:"employee_profit"`  // accrued on COMPLETED orders
	Expenses        float64 `json:"expenses"`
	NetProfit       float64 `json:"net_profit"`

	ActiveEmployees int64 `json:"active_employees"`
	ActiveStudents  int64 `json:"active_students"`
	ActiveServices  int64 `json:"active_services"`

	OverdueOrders []models.Order `json:"overdue_orders"`
}

// ResolveWindow turns a period selector into a concrete [from, to] range.
// All calendar math is pinned to UTC so results do not depend on the server
// timezone. A malformed custom date silently degrades to month semantics.
func ResolveWindow(period, date string, now time.Time) (from, to time.Time, resolved string) {
	now = now.UTC()

	switch period {
	case PeriodDay:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return midnight, now, PeriodDay
	case PeriodYear:
		return now.AddDate(-1, 0, 0), now, PeriodYear
	case PeriodCustom:
		day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			break
		}
		from = day
		to = day.Add(24*time.Hour - time.Millisecond)
		return from, to, PeriodCustom
	}

	return now.AddDate(0, -1, 0), now, PeriodMonth
}

// GetStats aggregates the admin dashboard numbers for the given window
func GetStats(db *gorm.DB, period, date string, now time.Time) (*Stats, error) {
	from, to, resolved := ResolveWindow(period, date, now)
	stats := &Stats{Period: resolved, From: from, To: to}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", from, to).
		Count(&stats.FilteredOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).Where("is_paid = ?", true).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("is_paid = ? AND created_at BETWEEN ? AND ?", true, from, to).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.FilteredRevenue).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(employee_profit), 0)").Scan(&stats.EmployeeProfit).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.Expenses).Error; err != nil {
		return nil, err
	}
	stats.NetProfit = stats.TotalRevenue - stats.EmployeeProfit - stats.Expenses

	if err := db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleEmployee, true).
		Count(&stats.ActiveEmployees).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Student{}).Count(&stats.ActiveStudents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Service{}).Where("is_active = ?", true).
		Count(&stats.ActiveServices).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Student").Preload("Service").
		Where("deadline IS NOT NULL AND deadline < ? AND status NOT IN ?",
			now.UTC(), []string{models.StatusCompleted, models.StatusCancelled}).
		Order("deadline ASC").Limit(10).
		Find(&stats.OverdueOrders).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
