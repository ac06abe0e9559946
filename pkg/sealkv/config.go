package sealkv

import (
	"github.com/sealkv/sealkv/pkg/core"
)

type Config = core.Config
type TransformConfig = core.TransformConfig
