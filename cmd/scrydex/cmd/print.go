package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/manabase/scrydex"
	"github.com/manabase/scrydex/pkg/cards"
)

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	faintColor = color.New(color.Faint)
)

// printResult renders any value in the selected output format. Text output
// is only defined for card and descriptor values; everything else falls back
// to JSON.
func printResult(v any) error {
	switch strings.ToLower(outputFormat) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	default:
		return printText(v)
	}
}

func printText(v any) error {
	switch t := v.(type) {
	case *cards.Card:
		printCard(t)
	case []*cards.Card:
		for i, c := range t {
			if i > 0 {
				fmt.Println()
			}
			printCard(c)
		}
	case []cards.BulkDescriptor:
		printDescriptors(t)
	case scrydex.Generation:
		nameColor.Printf("generation %s\n", t.Token)
		fmt.Printf("  downloaded:  %s\n", t.DownloadedAt)
		fmt.Printf("  cards:       %d\n", t.Records)
		fmt.Printf("  names:       %d\n", t.Names)
		if t.Collisions > 0 {
			faintColor.Printf("  collisions:  %d\n", t.Collisions)
		}
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return nil
}

func printCard(c *cards.Card) {
	header := c.Name
	if c.ManaCost != "" {
		header += "  " + c.ManaCost
	}
	nameColor.Println(header)

	if c.TypeLine != "" {
		fmt.Println(c.TypeLine)
	}
	if c.OracleText != "" {
		fmt.Println(c.OracleText)
	}
	if c.HasPrinting() {
		line := c.PrintingKey()
		if !c.ReleasedAt.IsZero() {
			line += "  released " + c.ReleasedAt.Format("2006-01-02")
		}
		faintColor.Println(line)
	}
}

func printDescriptors(ds []cards.BulkDescriptor) {
	for _, d := range ds {
		nameColor.Printf("%s", d.Type)
		fmt.Printf("  %s (~%.1f MB)\n", d.Name, float64(d.Size)/(1024*1024))
		if d.Description != "" {
			faintColor.Printf("  %s\n", d.Description)
		}
	}
}
