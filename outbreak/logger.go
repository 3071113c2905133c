package outbreak

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "outbreak")
