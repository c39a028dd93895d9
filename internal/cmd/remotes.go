package cmd

import (
	"context"
	"fmt"
)

// RemotesCmd manages the remote base paths of a server
type RemotesCmd struct {
	Add RemotesAddCmd `cmd:"add" help:"Add or update a remote base path"`
	Del RemotesDelCmd `cmd:"del" help:"Delete a remote and its selections"`
}

// RemotesAddCmd adds or updates a remote
type RemotesAddCmd struct {
	Server   string `arg:"" help:"Server name"`
	Name     string `arg:"" help:"Remote name"`
	BasePath string `arg:"" help:"Absolute base path on the server"`
}

// Run executes the add command
func (r *RemotesAddCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	if err := container.ServerService.SetRemote(context.Background(), r.Server, r.Name, r.BasePath); err != nil {
		return err
	}
	fmt.Printf("Remote '%s' on '%s' saved\n", r.Name, r.Server)
	return nil
}

// RemotesDelCmd deletes a remote
type RemotesDelCmd struct {
	Server string `arg:"" help:"Server name"`
	Name   string `arg:"" help:"Remote name"`
}

// Run executes the del command
func (r *RemotesDelCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	if err := container.ServerService.DeleteRemote(context.Background(), r.Server, r.Name); err != nil {
		return fmt.Errorf("failed to delete remote: %w", err)
	}
	fmt.Printf("Remote '%s' on '%s' deleted\n", r.Name, r.Server)
	return nil
}
