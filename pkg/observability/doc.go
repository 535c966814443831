/*
Package observability exports transaction activity as Prometheus metrics.

Metrics turns the lifecycle events of a root context into counters, a
duration histogram and a participant gauge:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	doc := document.New("handbook", document.WithHooks(m.Hooks()))
*/
package observability
