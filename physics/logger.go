package physics

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "physics")
