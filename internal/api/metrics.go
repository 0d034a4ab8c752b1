package api

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	matchRequests prometheus.Counter
	messagesSent  *prometheus.CounterVec
	quotaDenied   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		matchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "femmepacker",
			Name:      "host_match_requests_total",
			Help:      "Host match lookups served.",
		}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femmepacker",
			Name:      "messages_sent_total",
			Help:      "Messages accepted, by class.",
		}, []string{"class"}),
		quotaDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femmepacker",
			Name:      "quota_denied_total",
			Help:      "Sends refused by the monthly quota, by class.",
		}, []string{"class"}),
	}
	for _, c := range []prometheus.Collector{m.matchRequests, m.messagesSent, m.quotaDenied} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
