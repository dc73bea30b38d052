package services

import (
	"sync"
	"time"

	"solve_litigation_go/logger"

	"github.com/patrickmn/go-cache"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = time.Hour
	maxAlerts            = 100
)

// SecurityEventMonitor counts failed logins per client and raises alerts
type SecurityEventMonitor struct {
	mu           sync.Mutex
	failedLogins *cache.Cache // client -> []time.Time
	alertedIPs   *cache.Cache // client -> struct{}, expires after the cooldown
	alerts       []SecurityAlert
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Reason    string    `json:"reason"`
	Level     string    `json:"level"` // "WARNING", "CRITICAL"
}

// Global monitor instance
var Monitor *SecurityEventMonitor

// InitSecurityMonitor initializes the global monitor
func InitSecurityMonitor() {
	Monitor = NewSecurityEventMonitor()
}

func NewSecurityEventMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		failedLogins: cache.New(failedLoginWindow, failedLoginWindow),
		alertedIPs:   cache.New(alertCooldown, alertCooldown),
		alerts:       make([]SecurityAlert, 0),
	}
}

// TrackFailedLogin records a failed login attempt and alerts once the
// client reaches the threshold inside the window
func (m *SecurityEventMonitor) TrackFailedLogin(ip string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-failedLoginWindow)

	var attempts []time.Time
	if cached, found := m.failedLogins.Get(ip); found {
		for _, t := range cached.([]time.Time) {
			if t.After(windowStart) {
				attempts = append(attempts, t)
			}
		}
	}
	attempts = append(attempts, now)
	m.failedLogins.Set(ip, attempts, cache.DefaultExpiration)

	if len(attempts) >= failedLoginThreshold {
		m.triggerAlertLocked(ip, "Multiple failed logins detected")
	}
}

// triggerAlertLocked records and logs an alert, at most once per cooldown per client
func (m *SecurityEventMonitor) triggerAlertLocked(ip, reason string) {
	if _, alerted := m.alertedIPs.Get(ip); alerted {
		return
	}
	m.alertedIPs.Set(ip, struct{}{}, cache.DefaultExpiration)

	alert := SecurityAlert{
		Timestamp: time.Now(),
		IP:        ip,
		Reason:    reason,
		Level:     "CRITICAL",
	}
	// Newest first
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}

	securityAlertsTotal.Inc()
	logger.Log.Warn("Security alert", "reason", reason, "ip", ip)
}

// GetRecentAlerts returns a copy of recent alerts
func (m *SecurityEventMonitor) GetRecentAlerts() []SecurityAlert {
	if m == nil {
		return []SecurityAlert{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	alertsCopy := make([]SecurityAlert, len(m.alerts))
	copy(alertsCopy, m.alerts)
	return alertsCopy
}
