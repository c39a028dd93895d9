package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// UseCmd selects the server and remote for a working root
type UseCmd struct {
	Server string `arg:"" help:"Server name"`
	Remote string `arg:"" help:"Remote name"`
	Root   string `help:"Working root (defaults to the current directory)" type:"path" default:"."`
}

// Run executes the use command
func (u *UseCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	mapping, err := container.ServerService.Use(context.Background(), u.Root, u.Server, u.Remote)
	if err != nil {
		return fmt.Errorf("failed to select server: %w", err)
	}
	fmt.Printf("%s -> %s:%s\n", mapping.WorkingRoot, mapping.ServerName, mapping.RemoteName)
	return nil
}

// UnuseCmd clears the selection of a working root
type UnuseCmd struct {
	Root string `help:"Working root (defaults to the current directory)" type:"path" default:"."`
}

// Run executes the unuse command
func (u *UnuseCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	if err := container.ServerService.Unuse(context.Background(), u.Root); err != nil {
		return err
	}
	fmt.Println("Selection cleared")
	return nil
}

// MappingsCmd lists working-root selections
type MappingsCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the mappings command
func (m *MappingsCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	mappings, err := container.ServerService.ListMappings(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list mappings: %w", err)
	}

	if m.Format == "json" {
		data, err := json.MarshalIndent(mappings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROOT\tSERVER\tREMOTE")
	for _, mapping := range mappings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", mapping.WorkingRoot, mapping.ServerName, mapping.RemoteName)
	}
	w.Flush()
	return nil
}
