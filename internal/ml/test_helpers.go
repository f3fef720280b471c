package ml

import "sync"

// MockMetrics implements MetricsInterface for testing.
type MockMetrics struct {
	mu           sync.Mutex
	predictions  int
	failures     int
	encodeErrors int
	latencySum   float64
	modelAge     float64
	prices       []float64
	downloads    int
}

func (m *MockMetrics) PredictionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *MockMetrics) FailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) EncodeErrorsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encodeErrors++
}

func (m *MockMetrics) LatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySum += v
}

func (m *MockMetrics) ModelAgeSet(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modelAge = v
}

func (m *MockMetrics) PriceObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = append(m.prices, v)
}

func (m *MockMetrics) DownloadsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads++
}
