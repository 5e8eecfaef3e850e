package cmd

import (
	"context"
	"flag"

	"github.com/folioquant/folio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "print documentation about a topic" }
func (*topicCmd) Usage() string {
	return `folio topic [<name> ...]

  Prints the documentation for the given topics, or the list of topics when
  none is given. The special topic "*" prints everything.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		content, err := docs.GetTopic("readme")
		if err != nil {
			return fail(err)
		}
		printMarkdown(content)
		return subcommands.ExitSuccess
	}

	content, err := docs.GetTopics(f.Args()...)
	if err != nil {
		return fail(err)
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
