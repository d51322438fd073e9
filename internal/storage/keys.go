package storage

import (
	"path"
	"time"
)

const keyTimeLayout = "20060102_150405"

// ObjectKey builds "<prefix>/<YYYYMMDD_HHMMSS>_<name>". Any directory part of
// name is dropped so callers cannot escape the prefix.
func ObjectKey(prefix string, now time.Time, name string) string {
	base := path.Base("/" + name)
	key := now.Format(keyTimeLayout) + "_" + base
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
