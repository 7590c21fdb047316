package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airticket/config"
	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/pricing"
	"github.com/redis/go-redis/v9"
)

const idempotencyPending = "PROCESSING"

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// cachedFlight keeps the base price as its formatted string so the scale
// survives the round trip ("120.00" stays "120.00").
type cachedFlight struct {
	ID               int64               `json:"id"`
	FlightNumber     string              `json:"flight_number"`
	DepartureAirport string              `json:"departure_airport"`
	ArrivalAirport   string              `json:"arrival_airport"`
	DepartureTime    time.Time           `json:"departure_time"`
	ArrivalTime      time.Time           `json:"arrival_time"`
	BasePrice        string              `json:"base_price"`
	AvailableSeats   int                 `json:"available_seats"`
	Status           domain.FlightStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func toCached(f domain.Flight) cachedFlight {
	return cachedFlight{
		ID:               f.ID,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		BasePrice:        pricing.Format(f.BasePrice),
		AvailableSeats:   f.AvailableSeats,
		Status:           f.Status,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

func (cf cachedFlight) flight() (domain.Flight, error) {
	price, err := pricing.Parse(cf.BasePrice)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("cached flight %d: %w", cf.ID, err)
	}
	return domain.Flight{
		ID:               cf.ID,
		FlightNumber:     cf.FlightNumber,
		DepartureAirport: cf.DepartureAirport,
		ArrivalAirport:   cf.ArrivalAirport,
		DepartureTime:    cf.DepartureTime,
		ArrivalTime:      cf.ArrivalTime,
		BasePrice:        price,
		AvailableSeats:   cf.AvailableSeats,
		Status:           cf.Status,
		CreatedAt:        cf.CreatedAt,
		UpdatedAt:        cf.UpdatedAt,
	}, nil
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeFlights(data)
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := encodeFlights(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	data, err := c.client.Get(ctx, flightKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cf cachedFlight
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	f, err := cf.flight()
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *RedisCache) SetFlight(ctx context.Context, flight *domain.Flight) error {
	payload, err := json.Marshal(toCached(*flight))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightKey(flight.ID), payload, c.flightsTTL).Err()
}

// ReserveIdempotencyKey marks key as in progress for lockTTL. It reports
// false when the key is already reserved or completed.
func (c *RedisCache) ReserveIdempotencyKey(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	return c.client.SetNX(ctx, idempotencyKey(key), idempotencyPending, lockTTL).Result()
}

// LookupIdempotencyKey returns the stored response for a completed key.
// done is false while the key is missing or still in progress.
func (c *RedisCache) LookupIdempotencyKey(ctx context.Context, key string) (response []byte, done bool, err error) {
	data, err := c.client.Get(ctx, idempotencyKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if string(data) == idempotencyPending {
		return nil, false, nil
	}
	return data, true, nil
}

func (c *RedisCache) CompleteIdempotencyKey(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return c.client.Set(ctx, idempotencyKey(key), response, ttl).Err()
}

func (c *RedisCache) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return c.client.Del(ctx, idempotencyKey(key)).Err()
}

func encodeFlights(flights []domain.Flight) ([]byte, error) {
	list := make([]cachedFlight, 0, len(flights))
	for _, f := range flights {
		list = append(list, toCached(f))
	}
	return json.Marshal(list)
}

func decodeFlights(data []byte) ([]domain.Flight, error) {
	var list []cachedFlight
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	flights := make([]domain.Flight, 0, len(list))
	for _, cf := range list {
		f, err := cf.flight()
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func flightsKey() string {
	return "cache:flights"
}

func flightKey(id int64) string {
	return fmt.Sprintf("cache:flight:%d", id)
}

func idempotencyKey(key string) string {
	return "idempotency:" + key
}
