// Package time holds the timestamp conventions shared by the store and the loops
package time

import "time"

// Second returns t in UTC truncated to whole seconds, the precision every
// persisted instant and the ingestion cursor are kept at
func Second(t time.Time) time.Time { return t.UTC().Truncate(time.Second) }

// Unix converts a feed timestamp in fractional epoch seconds
func Unix(sec float64) time.Time {
	whole := int64(sec)
	return Second(time.Unix(whole, int64((sec-float64(whole))*1e9)))
}
