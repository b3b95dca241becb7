package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cafeconnect/internal/models"
	"cafeconnect/internal/store"

	"github.com/shopspring/decimal"
)

// Report ranges accepted by SalesReport.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeAll   = "all"
)

const topProductsLimit = 5

// ProductSales is the sold quantity and revenue of one product.
type ProductSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Sales    float64 `json:"sales"`
}

// PaymentBreakdown is the share of sales taken with one payment method.
type PaymentBreakdown struct {
	Method     models.PaymentMethod `json:"method"`
	Orders     int                  `json:"orders"`
	Amount     float64              `json:"amount"`
	Percentage float64              `json:"percentage"`
}

// HourlySales aggregates sales by hour of day.
type HourlySales struct {
	Hour   int     `json:"hour"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// SalesReport summarises non-cancelled orders placed in a range.
type SalesReport struct {
	Range          string             `json:"range"`
	From           *time.Time         `json:"from,omitempty"`
	To             time.Time          `json:"to"`
	TotalSales     float64            `json:"totalSales"`
	OrderCount     int                `json:"orderCount"`
	AverageOrder   float64            `json:"averageOrder"`
	TopProducts    []ProductSales     `json:"topProducts"`
	PaymentMethods []PaymentBreakdown `json:"paymentMethods"`
	ByHour         []HourlySales      `json:"byHour"`
}

// Dashboard is the back-office landing summary.
type Dashboard struct {
	Counts        map[string]int64 `json:"counts"`
	PendingOrders int              `json:"pendingOrders"`
	TodayOrders   int              `json:"todayOrders"`
	TodaySales    float64          `json:"todaySales"`
}

// ReportService computes sales reports from stored orders.
type ReportService struct {
	store store.Store
	now   func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(s store.Store) *ReportService {
	return &ReportService{store: s, now: time.Now}
}

// SalesReport aggregates the orders of rng: today, week (last 7 days), month
// (last 30 days) or all. Sales are what the customer paid, total plus tax.
func (s *ReportService) SalesReport(ctx context.Context, rng string) (*SalesReport, error) {
	if rng == "" {
		rng = RangeToday
	}
	now := s.now()
	from, err := rangeStart(rng, now)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.Orders().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{Range: rng, To: now, TopProducts: []ProductSales{}, PaymentMethods: []PaymentBreakdown{}}
	if !from.IsZero() {
		report.From = &from
	}

	total := decimal.Zero
	products := map[string]*productTotals{}
	payments := map[models.PaymentMethod]*paymentTotals{}
	hours := make([]hourTotals, 24)
	var paymentOrder []models.PaymentMethod

	for _, o := range orders {
		if o.Status == models.StatusCancelled || o.OrderDate.Before(from) || o.OrderDate.After(now) {
			continue
		}
		amount := orderAmount(o)
		total = total.Add(amount)
		report.OrderCount++

		for _, item := range o.Items {
			p, ok := products[item.Name]
			if !ok {
				p = &productTotals{}
				products[item.Name] = p
			}
			p.quantity += item.Quantity
			p.sales = p.sales.Add(item.LineTotal())
		}

		pm, ok := payments[o.PaymentMethod]
		if !ok {
			pm = &paymentTotals{}
			payments[o.PaymentMethod] = pm
			paymentOrder = append(paymentOrder, o.PaymentMethod)
		}
		pm.orders++
		pm.amount = pm.amount.Add(amount)

		h := o.OrderDate.In(now.Location()).Hour()
		hours[h].orders++
		hours[h].sales = hours[h].sales.Add(amount)
	}

	report.TotalSales = total.InexactFloat64()
	if report.OrderCount > 0 {
		report.AverageOrder = total.Div(decimal.NewFromInt(int64(report.OrderCount))).Round(2).InexactFloat64()
	}
	report.TopProducts = topProducts(products, topProductsLimit)

	for _, method := range paymentOrder {
		pm := payments[method]
		share := decimal.Zero
		if total.IsPositive() {
			share = pm.amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		report.PaymentMethods = append(report.PaymentMethods, PaymentBreakdown{
			Method:     method,
			Orders:     pm.orders,
			Amount:     pm.amount.InexactFloat64(),
			Percentage: share.InexactFloat64(),
		})
	}
	sort.SliceStable(report.PaymentMethods, func(i, j int) bool {
		return report.PaymentMethods[i].Amount > report.PaymentMethods[j].Amount
	})

	report.ByHour = make([]HourlySales, 24)
	for h, t := range hours {
		report.ByHour[h] = HourlySales{Hour: h, Orders: t.orders, Sales: t.sales.InexactFloat64()}
	}
	return report, nil
}

// Dashboard summarises collection sizes, open orders and today's takings.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := store.Counts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.Orders().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start, _ := rangeStart(RangeToday, now)
	today := decimal.Zero
	dash := &Dashboard{Counts: counts}
	for _, o := range orders {
		if o.Status == models.StatusPending {
			dash.PendingOrders++
		}
		if o.Status == models.StatusCancelled || o.OrderDate.Before(start) || o.OrderDate.After(now) {
			continue
		}
		dash.TodayOrders++
		today = today.Add(orderAmount(o))
	}
	dash.TodaySales = today.InexactFloat64()
	return dash, nil
}

type productTotals struct {
	quantity int
	sales    decimal.Decimal
}

type paymentTotals struct {
	orders int
	amount decimal.Decimal
}

type hourTotals struct {
	orders int
	sales  decimal.Decimal
}

func orderAmount(o models.Order) decimal.Decimal {
	return decimal.NewFromFloat(o.Total).Add(decimal.NewFromFloat(o.Tax))
}

// rangeStart returns the first instant of rng, or the zero time for RangeAll.
func rangeStart(rng string, now time.Time) (time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch rng {
	case RangeToday:
		return midnight, nil
	case RangeWeek:
		return midnight.AddDate(0, 0, -6), nil
	case RangeMonth:
		return midnight.AddDate(0, 0, -29), nil
	case RangeAll:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("%w: range must be one of: today, week, month, all", ErrValidation)
	}
}

func topProducts(products map[string]*productTotals, limit int) []ProductSales {
	out := make([]ProductSales, 0, len(products))
	for name, p := range products {
		out = append(out, ProductSales{Name: name, Quantity: p.quantity, Sales: p.sales.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
