package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/logging"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	Days         int // bookings land in the next Days days
	BookingRatio float64
	CancelRatio  float64
	ConfirmRatio float64
	ReadRatio    float64
	Location     *time.Location
}

type DataPool struct {
	Customers []uuid.UUID
	Services  []uuid.UUID

	mu           sync.RWMutex
	appointments []uuid.UUID
}

func (dp *DataPool) AddAppointment(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return uuid.Nil, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total    int64
	Success  int64
	Conflict int64
	Error    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, status int, err error) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case err == nil && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case err == nil && (status == http.StatusConflict || status == http.StatusUnprocessableEntity || status == http.StatusServiceUnavailable):
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}
	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Percentiles() (p50, p95, max time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()
	if len(om.latencies) == 0 {
		return 0, 0, 0
	}
	l := append([]time.Duration(nil), om.latencies...)
	sort.Slice(l, func(i, j int) bool { return l[i] < l[j] })
	return l[len(l)*50/100], l[min(len(l)*95/100, len(l)-1)], l[len(l)-1]
}

type Metrics struct {
	Booking OperationMetrics
	Cancel  OperationMetrics
	Confirm OperationMetrics
	Read    OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	logger  *slog.Logger
	metrics Metrics
}

func main() {
	logger := logging.New("simulate")

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := sim.loadDataPool(ctx)
	cancel()
	if err != nil {
		logger.Error("load data pool", "err", err)
		os.Exit(1)
	}
	sim.pool = pool
	logger.Info("data loaded", "customers", len(pool.Customers), "services", len(pool.Services))

	sim.Run()
	sim.PrintReport()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sim.Audit(ctx); err != nil {
		logger.Error("audit failed", "err", err)
		os.Exit(1)
	}
	logger.Info("audit passed: no overlapping active appointments")
}

func loadConfig() (SimConfig, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("SALON_TIMEZONE", "Local"))
	if err != nil {
		return SimConfig{}, fmt.Errorf("SALON_TIMEZONE: %w", err)
	}

	cfg := SimConfig{
		APIBaseURL:   strings.TrimRight(getEnv("SIM_API_BASE_URL", "http://localhost:8080"), "/"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		Days:         getInt("SIM_DAYS", 5),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:  getFloat("SIM_CANCEL_RATIO", 0.1),
		ConfirmRatio: getFloat("SIM_CONFIRM_RATIO", 0.1),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
		Location:     loc,
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.ConfirmRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.ConfirmRatio /= total
		cfg.ReadRatio /= total
	}

	switch {
	case cfg.Workers <= 0:
		return cfg, errors.New("SIM_WORKERS must be > 0")
	case cfg.Duration <= 0:
		return cfg, errors.New("SIM_DURATION must be > 0")
	case cfg.Days <= 0:
		return cfg, errors.New("SIM_DAYS must be > 0")
	}
	return cfg, nil
}

func (s *Simulator) getJSON(ctx context.Context, path string, dst any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if dst != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (s *Simulator) post(ctx context.Context, path string, body any, dst any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if dst != nil && resp.StatusCode < 300 {
		_ = json.NewDecoder(resp.Body).Decode(dst)
	}
	return resp.StatusCode, nil
}

type idOnly struct {
	ID uuid.UUID `json:"id"`
}

func (s *Simulator) loadDataPool(ctx context.Context) (*DataPool, error) {
	var customers, services []idOnly
	if _, err := s.getJSON(ctx, "/customers", &customers); err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	if _, err := s.getJSON(ctx, "/services?active=true", &services); err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}

	dp := &DataPool{}
	for _, c := range customers {
		dp.Customers = append(dp.Customers, c.ID)
	}
	for _, sv := range services {
		dp.Services = append(dp.Services, sv.ID)
	}

	if len(dp.Customers) == 0 {
		return nil, errors.New("no customers, run cmd/seed first")
	}
	if len(dp.Services) == 0 {
		return nil, errors.New("no active services, run cmd/seed first")
	}
	return dp, nil
}

// randomStart picks a quarter-hour start inside business hours on one of
// the next few days.
func (s *Simulator) randomStart(rng *rand.Rand) time.Time {
	now := time.Now().In(s.config.Location)
	day := now.AddDate(0, 0, 1+rng.Intn(s.config.Days))
	slots := (appointment.CloseHour - appointment.OpenHour) * 4
	q := rng.Intn(slots)
	return time.Date(day.Year(), day.Month(), day.Day(),
		appointment.OpenHour+q/4, (q%4)*15, 0, 0, s.config.Location)
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.logger.Info("starting simulation", "duration", s.config.Duration, "workers", s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}
	wg.Wait()

	s.logger.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for ctx.Err() == nil {
		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, rng)
		case r < s.config.BookingRatio+s.config.CancelRatio:
			s.doTransition(ctx, rng, "cancel", &s.metrics.Cancel)
		case r < s.config.BookingRatio+s.config.CancelRatio+s.config.ConfirmRatio:
			s.doTransition(ctx, rng, "confirm", &s.metrics.Confirm)
		default:
			s.doRead(ctx, rng)
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	body := map[string]string{
		"customer_id": s.pool.Customers[rng.Intn(len(s.pool.Customers))].String(),
		"service_id":  s.pool.Services[rng.Intn(len(s.pool.Services))].String(),
		"start_time":  s.randomStart(rng).Format(time.RFC3339),
	}

	start := time.Now()
	var created idOnly
	status, err := s.post(ctx, "/appointments", body, &created)
	if ctx.Err() != nil {
		return
	}
	s.metrics.Booking.Record(time.Since(start), status, err)

	if err == nil && status == http.StatusCreated && created.ID != uuid.Nil {
		s.pool.AddAppointment(created.ID)
	}
}

func (s *Simulator) doTransition(ctx context.Context, rng *rand.Rand, action string, om *OperationMetrics) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.post(ctx, fmt.Sprintf("/appointments/%s/%s", id, action), nil, nil)
	if ctx.Err() != nil {
		return
	}
	om.Record(time.Since(start), status, err)
}

func (s *Simulator) doRead(ctx context.Context, rng *rand.Rand) {
	path := "/appointments?view=upcoming"
	if id, ok := s.pool.RandomAppointment(rng); ok && rng.Intn(2) == 0 {
		path = "/appointments/" + id.String()
	}

	start := time.Now()
	status, err := s.getJSON(ctx, path, nil)
	if ctx.Err() != nil {
		return
	}
	s.metrics.Read.Record(time.Since(start), status, err)
}

type auditRow struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

// Audit fetches every appointment and fails if two active ones overlap.
func (s *Simulator) Audit(ctx context.Context) error {
	var rows []auditRow
	if _, err := s.getJSON(ctx, "/appointments", &rows); err != nil {
		return err
	}

	var active []auditRow
	for _, r := range rows {
		if appointment.Status(r.Status).Active() {
			active = append(active, r)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].StartTime.Before(active[j].StartTime) })

	if len(active) > 0 {
		latest := active[0] // the row seen so far that ends last
		for _, cur := range active[1:] {
			if appointment.Overlaps(latest.StartTime, latest.EndTime, cur.StartTime, cur.EndTime) {
				return fmt.Errorf("appointments %s and %s overlap", latest.ID, cur.ID)
			}
			if cur.EndTime.After(latest.EndTime) {
				latest = cur
			}
		}
	}

	s.logger.Info("audit checked appointments", "total", len(rows), "active", len(active))
	return nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n\n", s.config.Workers)

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Confirm", &s.metrics.Confirm)
	printOperationReport("Read", &s.metrics.Read)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	pct := func(n int64) float64 { return float64(n) / float64(total) * 100 }
	success := atomic.LoadInt64(&om.Success)
	rejected := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)
	p50, p95, max := om.Percentiles()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, pct(success))
	if rejected > 0 {
		fmt.Printf("  Rejected: %d (%.1f%%)\n", rejected, pct(rejected))
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, pct(failed))
	}
	fmt.Printf("  Latency: p50=%s p95=%s max=%s\n\n",
		p50.Round(time.Millisecond), p95.Round(time.Millisecond), max.Round(time.Millisecond))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
