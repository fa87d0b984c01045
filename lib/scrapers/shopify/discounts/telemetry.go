package discounts

import "ezsd/lib/telemetry"

var tracer = telemetry.Tracer("ezsd.lib.scrapers.shopify.discounts")
