package transform

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("transform")
