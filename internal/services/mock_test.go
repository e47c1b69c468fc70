package services

import (
	"context"
	"sync"

	"solar-estimator/internal/models"
)

// fakeProvider serves canned conditions and errors keyed by city
type fakeProvider struct {
	mu         sync.Mutex
	conditions map[string]models.Conditions
	errs       map[string]error
	calls      []string
}

func (f *fakeProvider) Current(ctx context.Context, city string) (*models.Conditions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, city)
	if err, ok := f.errs[city]; ok {
		return nil, err
	}
	c, ok := f.conditions[city]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	c.City = city
	return &c, nil
}
