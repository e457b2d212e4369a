package app

import (
	"github.com/avetra/committee-portal/auth"
	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/service"
)

type App struct {
	*service.Service
	Gate *auth.Gate
	config.Config
}
