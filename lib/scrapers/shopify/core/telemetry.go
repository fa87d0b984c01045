package core

import (
	"ezsd/lib/restyutil"
	"ezsd/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("ezsd.lib.scrapers.shopify.core")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

func restyutilInstrument(client *resty.Client) {
	restyutil.InstrumentClient(client, restyInstrumentOutput)
}
