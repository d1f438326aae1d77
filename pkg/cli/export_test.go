package cli

var (
	GetIndexConfig = getIndexConfig
	ExpandPaths    = expandPaths
)
