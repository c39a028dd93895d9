package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/renato0307/ferry/internal/domain"
)

// ServersCmd manages servers
type ServersCmd struct {
	Add    ServersAddCmd    `cmd:"add" help:"Add or update a server"`
	Del    ServersDelCmd    `cmd:"del" help:"Delete a server and its selections"`
	Export ServersExportCmd `cmd:"export" help:"Write servers as YAML"`
	Import ServersImportCmd `cmd:"import" help:"Add servers from a YAML file"`
	List   ServersListCmd   `cmd:"list" help:"List servers" default:"1"`
}

// serverFile is the YAML document used by import and export
type serverFile struct {
	Servers []domain.Server `yaml:"servers"`
}

// ServersAddCmd adds or updates a server
type ServersAddCmd struct {
	Auth        string   `help:"Authentication method" enum:"key,password" default:"key"`
	Host        string   `help:"Host name, optionally with :port"`
	Interactive bool     `help:"Fill in the server with a form" short:"i"`
	KeyPath     string   `help:"Private key path for key authentication" default:"~/.ssh/id_ed25519"`
	Name        string   `arg:"" help:"Name of the server"`
	Password    string   `help:"Password for password authentication (prompted when omitted)"`
	Port        int      `help:"SSH port (default 22)"`
	Remote      []string `help:"Remote base path as name=/abs/path (repeatable)"`
	User        string   `help:"User name"`
}

// Run executes the add command
func (s *ServersAddCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	server := domain.Server{
		AuthMethod: domain.AuthMethod(s.Auth),
		Host:       s.Host,
		KeyPath:    s.KeyPath,
		Name:       s.Name,
		Password:   s.Password,
		Port:       s.Port,
		User:       s.User,
	}
	remotes, err := parseRemotes(s.Remote)
	if err != nil {
		return err
	}
	server.Remotes = remotes

	if s.Interactive {
		if err := runServerForm(&server); err != nil {
			return err
		}
	} else if server.AuthMethod == domain.AuthPassword && server.Password == "" {
		password, err := promptPassword(fmt.Sprintf("Password for %s@%s: ", server.User, server.Host))
		if err != nil {
			return err
		}
		server.Password = password
	}
	if server.AuthMethod == domain.AuthPassword {
		server.KeyPath = ""
	}

	if err := container.ServerService.AddServer(context.Background(), server); err != nil {
		return fmt.Errorf("failed to add server: %w", err)
	}

	fmt.Printf("Server '%s' saved\n", server.Name)
	return nil
}

func runServerForm(server *domain.Server) error {
	method := string(server.AuthMethod)
	port := ""
	if server.Port > 0 {
		port = strconv.Itoa(server.Port)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Value(&server.Host).
				Validate(required("host")),
			huh.NewInput().
				Title("Port").
				Placeholder("22").
				Value(&port).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("port must be a number")
					}
					return nil
				}),
			huh.NewInput().
				Title("User").
				Value(&server.User).
				Validate(required("user")),
			huh.NewSelect[string]().
				Title("Authentication").
				Options(
					huh.NewOption("Private key", string(domain.AuthKey)),
					huh.NewOption("Password", string(domain.AuthPassword)),
				).
				Value(&method),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Private key path").
				Value(&server.KeyPath).
				Validate(required("key path")),
		).WithHideFunc(func() bool { return method != string(domain.AuthKey) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&server.Password).
				Validate(required("password")),
		).WithHideFunc(func() bool { return method != string(domain.AuthPassword) }),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	server.AuthMethod = domain.AuthMethod(method)
	if port != "" {
		server.Port, _ = strconv.Atoi(port)
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password required: use --password or run in a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

// parseRemotes parses name=/abs/path pairs
func parseRemotes(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	remotes := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, base, ok := strings.Cut(pair, "=")
		if !ok || name == "" || base == "" {
			return nil, fmt.Errorf("invalid remote %q, expected name=/abs/path", pair)
		}
		remotes[name] = base
	}
	return remotes, nil
}

// ServersListCmd lists servers
type ServersListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (s *ServersListCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	servers, err := container.ServerService.ListServers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}
	for i := range servers {
		servers[i] = redact(servers[i])
	}

	if s.Format == "json" {
		data, err := json.MarshalIndent(servers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tUSER\tAUTH\tREMOTES")
	for _, server := range servers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			server.Name,
			server.Address(),
			server.User,
			server.AuthMethod,
			formatRemotes(server.Remotes))
	}
	w.Flush()

	fmt.Printf("\nTotal: %d servers\n", len(servers))
	return nil
}

func redact(server domain.Server) domain.Server {
	if server.Password != "" {
		server.Password = "********"
	}
	return server
}

func formatRemotes(remotes map[string]string) string {
	if len(remotes) == 0 {
		return "-"
	}
	names := make([]string, 0, len(remotes))
	for name := range remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + remotes[name]
	}
	return strings.Join(parts, ",")
}

// ServersDelCmd deletes a server
type ServersDelCmd struct {
	Name string `arg:"" help:"Name of the server to delete"`
}

// Run executes the del command
func (s *ServersDelCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	if err := container.ServerService.DeleteServer(context.Background(), s.Name); err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}
	fmt.Printf("Server '%s' deleted\n", s.Name)
	return nil
}

// ServersExportCmd writes servers as YAML
type ServersExportCmd struct {
	File           string `arg:"" optional:"" help:"Output file (stdout when omitted)" type:"path"`
	IncludeSecrets bool   `help:"Include passwords in the output"`
}

// Run executes the export command
func (s *ServersExportCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	servers, err := container.ServerService.ListServers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}
	if !s.IncludeSecrets {
		for i := range servers {
			servers[i].Password = ""
		}
	}

	data, err := yaml.Marshal(serverFile{Servers: servers})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if s.File == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(s.File, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.File, err)
	}
	fmt.Printf("Exported %d servers to %s\n", len(servers), s.File)
	return nil
}

// ServersImportCmd reads servers from YAML
type ServersImportCmd struct {
	File string `arg:"" help:"YAML file written by servers export" type:"existingfile"`
}

// Run executes the import command
func (s *ServersImportCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(s.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.File, err)
	}
	var file serverFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid server file %s: %w", s.File, err)
	}

	n, err := container.ServerService.ImportServers(context.Background(), file.Servers)
	fmt.Printf("Imported %d of %d servers\n", n, len(file.Servers))
	if err != nil {
		return fmt.Errorf("import stopped: %w", err)
	}
	return nil
}
