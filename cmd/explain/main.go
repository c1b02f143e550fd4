// Command explain is the host shell for the translation engine: it
// validates a JSON memory map path, loads it into a message catalog, and
// exposes translate/dump/fields/poke/msgid subcommands built on that
// catalog. It replaces the reference implementation's single-shot
// parse-translate-print main() with a small urfave/cli application so
// each operation can be invoked independently.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v2"

	"github.com/WindhoverLabs/explain/ccsds"
	"github.com/WindhoverLabs/explain/inspect"
	"github.com/WindhoverLabs/explain/memmap"
	"github.com/WindhoverLabs/explain/message"
	"github.com/WindhoverLabs/explain/translate"
)

// maxTranslateLen is the largest --max-len this shell will allocate a
// destination buffer for, guarding against an accidental multi-gigabyte
// allocation from a typo'd flag.
const maxTranslateLen = 1 << 20

func main() {
	logger := gokitlog.NewLogfmtLogger(gokitlog.NewSyncWriter(os.Stderr))
	logger = gokitlog.With(logger, "ts", gokitlog.DefaultTimestampUTC)

	app := &cli.App{
		Name:  "explain",
		Usage: "translate, inspect, and patch ABI-mapped message buffers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "path",
				Aliases:  []string{"p"},
				Usage:    "path to the JSON memory map",
				Required: true,
			},
		},
		Commands: []*cli.Command{
			translateCommand(logger),
			dumpCommand(logger),
			fieldsCommand(logger),
			pokeCommand(logger),
			msgidCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		level.Error(logger).Log("msg", "explain failed", "err", err)
		os.Exit(1)
	}
}

func validatePath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	return nil
}

func loadCatalog(c *cli.Context) (*message.Catalog, error) {
	path := c.String("path")
	if err := validatePath(path); err != nil {
		return nil, err
	}
	return memmap.LoadFile(contextOf(c), path, nil)
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

// resolveMessage finds a message by whichever of the catalog's four
// lookup axes key matches: a hex id first, then ops name, then source
// symbol, then destination symbol.
func resolveMessage(cat *message.Catalog, key string) (*message.Message, error) {
	if id, err := strconv.ParseUint(key, 16, 32); err == nil {
		if msg, ok := cat.FindByID(uint32(id)); ok {
			return msg, nil
		}
	}
	if msg, ok := cat.FindByOpsName(key); ok {
		return msg, nil
	}
	if msg, ok := cat.FindBySrcSymbol(key); ok {
		return msg, nil
	}
	if msg, ok := cat.FindByDstSymbol(key); ok {
		return msg, nil
	}
	return nil, fmt.Errorf("no message matches %q on any lookup axis", key)
}

func parseSide(s string) (inspect.Side, error) {
	switch s {
	case "", "src":
		return inspect.Src, nil
	case "dst":
		return inspect.Dst, nil
	default:
		return 0, fmt.Errorf("unknown side %q, want src or dst", s)
	}
}

func translateCommand(logger gokitlog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "translate",
		Usage: "translate a message buffer from one ABI to the other",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Required: true, Usage: "input buffer file"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output buffer file"},
			&cli.StringFlag{Name: "msg", Required: true, Usage: "message id, ops name, src symbol, or dst symbol"},
			&cli.IntFlag{Name: "max-len", Required: true, Usage: "destination buffer capacity in bytes"},
			&cli.StringFlag{Name: "direction", Value: "forward", Usage: "forward or reverse"},
		},
		Action: func(c *cli.Context) error {
			cat, err := loadCatalog(c)
			if err != nil {
				return err
			}
			msg, err := resolveMessage(cat, c.String("msg"))
			if err != nil {
				return err
			}

			maxLen := c.Int("max-len")
			if maxLen <= 0 || maxLen > maxTranslateLen {
				return fmt.Errorf("--max-len %d out of range (0,%d]", maxLen, maxTranslateLen)
			}

			src, err := os.ReadFile(c.String("src"))
			if err != nil {
				return err
			}

			var direction translate.Direction
			switch c.String("direction") {
			case "forward", "":
				direction = translate.Forward
			case "reverse":
				direction = translate.Reverse
			default:
				return fmt.Errorf("unknown direction %q, want forward or reverse", c.String("direction"))
			}

			dst := make([]byte, maxLen)
			n, err := translate.Translate(dst, src, msg, maxLen, direction)
			if err != nil {
				return err
			}

			if err := os.WriteFile(c.String("out"), dst[:n], 0o644); err != nil {
				return err
			}
			level.Info(logger).Log("msg", "translated message", "ops_name", msg.OpsName, "bytes", n)
			return nil
		},
	}
}

func dumpCommand(logger gokitlog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "print every message and field in the loaded memory map",
		Action: func(c *cli.Context) error {
			cat, err := loadCatalog(c)
			if err != nil {
				return err
			}
			spew.Dump(cat.Messages())
			level.Info(logger).Log("msg", "dumped memory map", "messages", cat.Len())
			return nil
		},
	}
}

func fieldsCommand(logger gokitlog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "fields",
		Usage: "print each field's decoded value from a message buffer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Required: true, Usage: "buffer file to decode"},
			&cli.StringFlag{Name: "msg", Required: true, Usage: "message id, ops name, src symbol, or dst symbol"},
			&cli.StringFlag{Name: "side", Value: "src", Usage: "src or dst"},
		},
		Action: func(c *cli.Context) error {
			cat, err := loadCatalog(c)
			if err != nil {
				return err
			}
			msg, err := resolveMessage(cat, c.String("msg"))
			if err != nil {
				return err
			}
			side, err := parseSide(c.String("side"))
			if err != nil {
				return err
			}
			buf, err := os.ReadFile(c.String("src"))
			if err != nil {
				return err
			}
			values, err := inspect.DumpFields(buf, msg, side)
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Printf("%-24s len=%-3d value=0x%x\n", v.OpName, v.BitLength, v.Value)
			}
			return nil
		},
	}
}

func pokeCommand(logger gokitlog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "poke",
		Usage: "overwrite one field's value in a message buffer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Required: true, Usage: "buffer file to patch"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output buffer file"},
			&cli.StringFlag{Name: "msg", Required: true, Usage: "message id, ops name, src symbol, or dst symbol"},
			&cli.StringFlag{Name: "side", Value: "src", Usage: "src or dst"},
			&cli.StringFlag{Name: "field", Required: true, Usage: "field op name"},
			&cli.Uint64Flag{Name: "value", Required: true, Usage: "new field value"},
		},
		Action: func(c *cli.Context) error {
			cat, err := loadCatalog(c)
			if err != nil {
				return err
			}
			msg, err := resolveMessage(cat, c.String("msg"))
			if err != nil {
				return err
			}
			side, err := parseSide(c.String("side"))
			if err != nil {
				return err
			}
			buf, err := os.ReadFile(c.String("src"))
			if err != nil {
				return err
			}
			if err := inspect.PokeField(buf, msg, side, c.String("field"), c.Uint64("value")); err != nil {
				return err
			}
			if err := os.WriteFile(c.String("out"), buf, 0o644); err != nil {
				return err
			}
			level.Info(logger).Log("msg", "poked field", "field", c.String("field"), "value", c.Uint64("value"))
			return nil
		},
	}
}

func msgidCommand(logger gokitlog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "msgid",
		Usage: "print the CCSDS primary-header message id of a buffer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Required: true, Usage: "buffer file to inspect"},
		},
		Action: func(c *cli.Context) error {
			buf, err := os.ReadFile(c.String("src"))
			if err != nil {
				return err
			}
			id, err := ccsds.MessageID(buf)
			if err != nil {
				return err
			}
			fmt.Printf("msgid=0x%04x secondary_header=%v\n", id, ccsds.HasSecondaryHeader(buf))
			return nil
		},
	}
}
