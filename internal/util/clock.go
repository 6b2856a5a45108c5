package util

import "time"

// Now retorna o instante atual em UTC.
func Now() time.Time {
	return time.Now().UTC()
}
