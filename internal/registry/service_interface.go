package registry

// Service is a kiosk component with a start/stop lifecycle.
type Service interface {
	Start() error
	Stop() error
}
