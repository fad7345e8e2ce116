package ir

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

// Dump writes an indented recursive dump of n to b and returns the
// extended slice. The format is diagnostic only — §6 leaves exact
// formatting non-contractual, so this exists for debugging and test
// assertions, not for a stable serialized form (see EncodeJSON for that).
func Dump(ctx context.Context, b []byte, n Node) ([]byte, error) {
	return dump(ctx, b, n, 0)
}

func dump(ctx context.Context, b []byte, n Node, d int) (_ []byte, err error) {
	if n == nil {
		return app(b, d, "<nil>\n"), nil
	}

	b = app(b, d, "%v", n.Kind())

	if loc := n.Loc(); loc != nil {
		b = hfmt.Appendf(b, "  @ %v", loc)
	}

	if dp, ok := n.(dbPrinter); ok {
		b = hfmt.Appendf(b, "  %v", dp.DbPrint())
	}

	b = append(b, '\n')

	for _, ch := range n.Children() {
		b = app(b, d+1, "%s:\n", orDefault(ch.Slot, "_"))

		b, err = dump(ctx, b, ch.Node, d+2)
		if err != nil {
			return nil, errors.Wrap(err, "child %s of %v", ch.Slot, n.Kind())
		}
	}

	return b, nil
}

// dbPrinter is the optional hook a variant implements (grounded on p4c's
// Node::dbprint) to contribute a one-line summary alongside its Kind and
// location, e.g. a literal's value or a path's name.
type dbPrinter interface {
	DbPrint() string
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)

	return hfmt.Appendf(b, f, args...)
}
