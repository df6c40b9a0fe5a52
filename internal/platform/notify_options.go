// Package platform sends desktop notifications through the host's
// notification service.
package platform

// DefaultAppName identifies lessonboard to notification services.
const DefaultAppName = "Lessonboard"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName is the sending application. Empty means DefaultAppName.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// TimeoutMillis is how long the notification stays up. Zero means five
	// seconds.
	TimeoutMillis int32
	// Urgent marks failures the user should not miss, such as dictation
	// dropping out mid-lesson.
	Urgent bool
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.TimeoutMillis <= 0 {
		return 5000
	}
	return o.TimeoutMillis
}

// urgency is the freedesktop urgency level: 1 normal, 2 critical.
func (o Options) urgency() byte {
	if o.Urgent {
		return 2
	}
	return 1
}
