/*
Package observability turns engine lifecycle hooks into operational signals.

Metrics registers Prometheus collectors and exposes them as domain.LifecycleHooks, and
Combine fans one event out to several hook sets (for example metrics plus audit logging).
*/
package observability
