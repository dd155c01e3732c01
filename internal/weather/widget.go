package weather

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Clawzd/portfolio/internal/status"
	"github.com/Clawzd/portfolio/internal/storage"
)

type Fetcher interface {
	Current(ctx context.Context, city string) (*Report, error)
}

// View is what the widget renders.
type View struct {
	City      string
	Status    status.Status
	Report    *Report
	UpdatedAt time.Time
}

// Widget remembers each visitor's city and fetches its weather.
type Widget struct {
	fetcher     Fetcher
	defaultCity string
	now         func() time.Time
}

func NewWidget(f Fetcher, defaultCity string) *Widget {
	return &Widget{fetcher: f, defaultCity: defaultCity, now: time.Now}
}

// Show fetches the visitor's saved city, or the default one. With neither
// there is nothing to fetch and the view stays idle.
func (w *Widget) Show(ctx context.Context, store storage.Store) View {
	city, ok := storage.Lookup(ctx, store, storage.KeyWeatherCity)
	if !ok || strings.TrimSpace(city) == "" {
		city = strings.TrimSpace(w.defaultCity)
	}
	if city == "" {
		return View{Status: status.Idle}
	}
	return w.fetch(ctx, city)
}

// Search saves a submitted city and fetches it. A blank city changes nothing.
func (w *Widget) Search(ctx context.Context, store storage.Store, city string) View {
	city = strings.TrimSpace(city)
	if city == "" {
		return w.Show(ctx, store)
	}
	storage.Put(ctx, store, storage.KeyWeatherCity, city)
	return w.fetch(ctx, city)
}

func (w *Widget) fetch(ctx context.Context, city string) View {
	report, err := w.fetcher.Current(ctx, city)
	v := View{City: city, Status: status.Of(err)}
	if err != nil {
		log.Printf("Error fetching weather: %v", err)
		return v
	}
	v.Report = report
	v.UpdatedAt = w.now()
	return v
}
