package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	flowLogin    = "login"
	flowLogout   = "logout"
	flowRegister = "register"

	resultSuccess = "success"
	resultFailure = "failure"
	resultInvalid = "invalid"
)

var authEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dandelion_auth_events_total",
		Help: "Auth flow outcomes by flow and result",
	},
	[]string{"flow", "result"},
)

func countEvent(flow string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	authEventsTotal.WithLabelValues(flow, result).Inc()
}
