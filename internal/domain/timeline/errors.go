package timeline

import "errors"

// ErrUnparseable is returned when a date token matches no known layout.
var ErrUnparseable = errors.New("unparseable date token")
