package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"go-currency-converter/catalog"
	"go-currency-converter/domain"
	"go-currency-converter/exchange"
)

const help = `commands:
  list            show the available currencies
  from <currency> convert from a currency, by name or code
  to <currency>   convert to a currency, by name or code
  <amount>        convert a whole amount
  quit            leave
`

const unavailable = "Unable to reach the exchange rate service. Check your connection and try again."

// Console a line oriented converter: pick two currencies, then type amounts.
type Console struct {
	catalog *catalog.Catalog
	session *exchange.Session
	logger  log.Logger

	from domain.Currency
	to   domain.Currency
}

// New returns a Console converting with the given session
func New(c *catalog.Catalog, s *exchange.Session, logger log.Logger) *Console {
	return &Console{
		catalog: c,
		session: s,
		logger:  logger,
	}
}

// Run reads commands from in until it is exhausted, ctx is done or the user quits
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, help)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := c.handle(ctx, strings.TrimSpace(scanner.Text()), out); quit {
			return nil
		}
	}
	return scanner.Err()
}

// handle runs one command and reports whether the user asked to quit
func (c *Console) handle(ctx context.Context, line string, out io.Writer) bool {
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(out, help)
	case "list":
		for _, e := range c.catalog.Entries() {
			fmt.Fprintf(out, "%s  %s\n", e.Code, e.Name)
		}
	case "from":
		if code, ok := c.resolve(arg, out); ok {
			c.from = code
		}
	case "to":
		if code, ok := c.resolve(arg, out); ok {
			c.to = code
		}
	default:
		c.convert(ctx, line, out)
	}
	return false
}

func (c *Console) resolve(arg string, out io.Writer) (domain.Currency, bool) {
	code, err := c.catalog.Resolve(arg)
	if err != nil {
		fmt.Fprintf(out, "unknown currency %q, try list\n", arg)
		return "", false
	}
	e, _ := c.catalog.Lookup(code)
	fmt.Fprintf(out, "%s (%s)\n", e.Name, e.Code)
	return code, true
}

func (c *Console) convert(ctx context.Context, text string, out io.Writer) {
	amount, err := domain.ParseAmount(text)
	if err != nil {
		fmt.Fprintf(out, "unknown command %q, amounts are whole numbers\n", text)
		return
	}
	if c.from == "" || c.to == "" {
		fmt.Fprintln(out, "select both currencies first")
		return
	}

	result, err := c.session.Convert(ctx, amount, c.from, c.to)
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		fmt.Fprintln(out, unavailable)
		c.from, c.to = "", ""
		return
	case err != nil:
		c.logger.Log("msg", "conversion failed", "from", c.from, "to", c.to, "err", err)
		fmt.Fprintln(out, "conversion failed")
		return
	}

	fmt.Fprintf(out, "%s %s = %s %s\n", result.Amount, result.From, exchange.Format(result.Converted), result.To)
}
