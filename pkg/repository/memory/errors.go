package memory

import "github.com/secmon-lab/themis/pkg/domain/interfaces"

var ErrNotFound = interfaces.ErrNotFound
