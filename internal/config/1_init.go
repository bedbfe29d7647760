package config

import (
	"context"
	"fmt"
	"runtime"
)

func init() {
	if BoolValue("HEALTHVIEW_DEBUG") {
		LogInfo(context.Background(), fmt.Sprintf("healthview config.init(): arch: %v", runtime.GOOS))
		LogInfo(context.Background(), "healthview config initialized with environment variable defaults")
	}
}
