//go:build mobile

package mobile

import "embed"

//go:embed data/fireworks.yaml
var dataFS embed.FS
