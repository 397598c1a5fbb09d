package storage

import (
	"strings"

	"github.com/prometheus/common/model"

	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
)

// Key is the storage engine's composite key: (lifetime, store, metric-type,
// metric-identifier), per spec.md §3 ("Storage key").
//
// The string encoding below joins the four fields with model.SeparatorByte
// (0xff), the same choice prometheus-pushgateway's groupingKeyFor makes
// when building a reproducible-and-unique key out of several string parts
// — a byte that cannot appear in a UTF-8-decoded store name, type tag or
// metric identifier, so the join is injective.
type Key struct {
	Lifetime   metricdata.Lifetime
	Store      string
	Type       metricval.TypeTag
	Identifier string
}

// String returns the single-string encoding of the key. The engine's map is
// keyed by the Key struct itself, not by this string.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Lifetime.String())
	b.WriteByte(model.SeparatorByte)
	b.WriteString(k.Store)
	b.WriteByte(model.SeparatorByte)
	b.WriteString(string(k.Type))
	b.WriteByte(model.SeparatorByte)
	b.WriteString(k.Identifier)
	return b.String()
}
