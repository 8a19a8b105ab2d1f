package recording

import (
	"strconv"

	"github.com/wasilibs/go-re2"
)

// Recording names follow the pattern produced by camera FTP uploads:
//
//	<deviceName>_<channelDigits>?_<YYYY><MM><DD><HH><MM><SS>.<ext>
//
// The device name charset is the set of characters Reolink allows when naming
// a device. Channel digits are zero-based on the camera and may be absent.
const (
	deviceNamePattern = `[a-zA-Z\d \-=+\[\]{}]+`

	// Loose pattern-level bounds (month up to 19, day up to 39, hour up to 29).
	// Strict calendar validation happens when the timestamp is constructed,
	// so the pattern only has to reject obvious garbage.
	datePattern = `([1-3]\d\d\d)([0-1]\d)([0-3]\d)([0-2]\d)([0-5]\d)([0-5]\d)`

	baseNamePattern = `(` + deviceNamePattern + `)_(\d*)_?` + datePattern
)

var (
	photoNameRegexp = re2.MustCompile(`^` + baseNamePattern + `\.jpg$`)
	videoNameRegexp = re2.MustCompile(`^` + baseNamePattern + `\.mp4$`)
)

// nameFields holds the capture groups of a matched recording name.
type nameFields struct {
	device        string
	channelDigits string

	year, month, day     int
	hour, minute, second int
}

// matchName matches a base file name against the pattern for the given kind.
func matchName(kind Kind, name string) (nameFields, bool) {
	var re *re2.Regexp
	switch kind {
	case KindPhoto:
		re = photoNameRegexp
	case KindVideo:
		re = videoNameRegexp
	default:
		return nameFields{}, false
	}

	groups := re.FindStringSubmatch(name)
	if groups == nil {
		return nameFields{}, false
	}

	return nameFields{
		device:        groups[1],
		channelDigits: groups[2],
		year:          mustAtoi(groups[3]),
		month:         mustAtoi(groups[4]),
		day:           mustAtoi(groups[5]),
		hour:          mustAtoi(groups[6]),
		minute:        mustAtoi(groups[7]),
		second:        mustAtoi(groups[8]),
	}, true
}

// mustAtoi converts a captured digit group. The pattern guarantees digits only.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
