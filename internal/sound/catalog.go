// Package sound maps sound identifiers to playable resources and plays them
// through an external command.
package sound

// Sound is one catalog entry.
type Sound struct {
	ID   string
	Name string
	URL  string
}

var alarms = []Sound{
	{ID: "digital", Name: "Digital", URL: "https://actions.google.com/sounds/v1/alarms/digital_watch_alarm_long.ogg"},
	{ID: "bell", Name: "Bell", URL: "https://actions.google.com/sounds/v1/alarms/alarm_clock.ogg"},
	{ID: "bird", Name: "Bird", URL: "https://actions.google.com/sounds/v1/foley/bird_chirp_short.ogg"},
}

var ambience = []Sound{
	{ID: "none", Name: "None"},
	{ID: "rain", Name: "Rain", URL: "https://www.soundjay.com/nature/rain-01.mp3"},
	{ID: "waves", Name: "Waves", URL: "https://www.soundjay.com/nature/ocean-waves-1.mp3"},
	{ID: "forest", Name: "Forest", URL: "https://www.soundjay.com/nature/forest-wind-1.mp3"},
}

func Alarms() []Sound { return append([]Sound(nil), alarms...) }

func Ambience() []Sound { return append([]Sound(nil), ambience...) }

func lookup(list []Sound, id string) (Sound, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, s.URL != ""
		}
	}
	return Sound{}, false
}

// AlarmURL returns the resource for an alarm id. ok is false for unknown ids.
func AlarmURL(id string) (string, bool) {
	s, ok := lookup(alarms, id)
	return s.URL, ok
}

// AmbienceURL returns the resource for an ambience id. ok is false for
// unknown ids and for "none".
func AmbienceURL(id string) (string, bool) {
	s, ok := lookup(ambience, id)
	return s.URL, ok
}
