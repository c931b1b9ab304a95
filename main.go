// main.go

package main

import (
	"github.com/CodeMonkeyCybersecurity/theke/cmd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	logger.Init()

	if err := telemetry.Init(shared.ServiceName); err != nil {
		zap.L().Warn("Telemetry initialization failed", zap.Error(err))
	}

	cmd.Execute()
}
