package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"

	"git.sr.ht/~hrtools/hrreject/app"
	"git.sr.ht/~hrtools/hrreject/config"
	"git.sr.ht/~hrtools/hrreject/lib/compose"
	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/worker"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// set at build time
var Version string

func buildInfo() string {
	info := Version
	if info == "" {
		info = "devel"
	}
	return info + fmt.Sprintf(" (%s %s %s)",
		runtime.Version(), runtime.GOARCH, runtime.GOOS)
}

func usage(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	fmt.Fprintln(os.Stderr,
		"usage: hrreject [-v] [-d] [-p] [-C <config-dir>] [-a <account>,...] <message-id|file>")
	os.Exit(1)
}

func openAccounts(conf *config.Config) ([]*types.Account, error) {
	var accounts []*types.Account
	for _, acct := range conf.Accounts {
		b, err := worker.NewBackend(acct.Source, conf.General.PageSize, acct.FoldersExclude)
		if err != nil {
			closeAccounts(accounts)
			return nil, fmt.Errorf("account %s: %w", acct.Name, err)
		}
		accounts = append(accounts, &types.Account{
			Name:    acct.Name,
			Drafts:  acct.Drafts,
			Backend: b,
		})
	}
	return accounts, nil
}

func closeAccounts(accounts []*types.Account) {
	for _, acct := range accounts {
		if err := acct.Backend.Close(); err != nil {
			log.Warnf("failed to close %s: %v", acct.Name, err)
		}
	}
}

func run(args []string) error {
	opts, optind, err := getopt.Getopts(args, "vdpC:a:")
	if err != nil {
		usage("error: " + err.Error())
	}
	var (
		accts   []string
		root    *string
		verbose bool
		pool    bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'v':
			fmt.Println("hrreject " + buildInfo())
			return nil
		case 'd':
			verbose = true
		case 'p':
			pool = true
		case 'C':
			value := opt.Value
			root = &value
		case 'a':
			accts = strings.Split(opt.Value, ",")
		}
	}
	rest := args[optind:]
	if len(rest) != 1 {
		usage("error: expected exactly one message-id or file")
	}

	conf, err := config.LoadConfigFromFile(root, accts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := conf.General.InitLogging(verbose); err != nil {
		return err
	}
	defer log.Close()
	log.Infof("starting up version %s", buildInfo())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	accounts, err := openAccounts(conf)
	if err != nil {
		return err
	}
	defer closeAccounts(accounts)

	action := app.Reject(conf.Reject.Policy)
	if pool {
		action = app.Pool(conf.Pool.Policy)
	}
	a := app.New(accounts, app.Options{
		Compose: compose.Options{
			From:   conf.Compose.From,
			Editor: conf.Compose.Editor,
		},
		Template:     conf.Compose.Template,
		TemplateDirs: conf.Compose.TemplateDirs,
		DateFormat:   conf.Compose.DateFormat,
	})
	res, err := a.Run(ctx, action, app.ParseSelection(rest[0]))
	if err != nil {
		return err
	}
	report(res)
	return nil
}

func report(res *app.Result) {
	switch {
	case res.Selected == nil:
		fmt.Println("no matching message")
		return
	case res.Applicant != nil:
		fmt.Printf("applicant: %s <%s>", res.Applicant.Name, res.Applicant.Email)
		if res.Applicant.Position != "" {
			fmt.Printf(", %s", res.Applicant.Position)
		}
		fmt.Println()
	}
	if res.Draft != 0 {
		fmt.Println("draft saved")
	}
	if res.Destination != nil {
		fmt.Printf("moved %d message(s) to %s:%s\n", len(res.Moved),
			res.Destination.Account.Name, res.Destination.Folder.Path)
	}
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hrreject: %v\n", err)
		os.Exit(1)
	}
}
