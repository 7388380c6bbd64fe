package taxrate

import "go.uber.org/fx"

// Module wires the rate table holder. A bad table fails app startup.
var Module = fx.Module("taxrate",
	fx.Provide(NewHolder),
)
