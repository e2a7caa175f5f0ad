/*
Package dlcs wires components to hierarchical listener trees: every
registered component owns one tree of prioritized, filterable listener
nodes, and publishers broadcast messages through those trees without
knowing who subscribed.

The package implements the registration side of the protocol through
several key abstractions:

  - Catalog: maps component identities to their listener tree roots and
    owns the set-up and tear-down protocol
  - Declarations: data describing the listeners a component wants,
    turned into concrete nodes at registration time
  - Adapters: the three builtin listener flavors (generic message,
    resource response, memory cache change), each with its own filter
    semantics

The trees themselves and the dispatch engine live in the listener
package; the message envelope, masks and tag matchers in the message
package; the two message-originating collaborators in the resource and
cache packages.

# Basic Usage

A component declares its listeners as data and registers itself with a
catalog:

	type Player struct{ score int }

	func (p *Player) Listeners() []dlcs.Declaration {
		return []dlcs.Declaration{
			dlcs.MessageListener{Method: "OnScore", Mask: 0b0010, Tags: []string{"score"}},
			dlcs.MemoryCacheListener{Method: "OnSettings", Path: message.Prefix("settings")},
		}
	}

	func (p *Player) OnScore(ctx context.Context, msg message.Message) (message.Message, error) {
		p.score += msg.Payload.(int)
		return msg, nil
	}

	func (p *Player) OnSettings(ctx context.Context, change cache.Change) {
		// react to settings.* updates
	}

	catalog := dlcs.New()
	player := &Player{}
	if _, err := catalog.Set(player); err != nil {
		return err
	}

	// publishers reach the player through the catalog's engine
	_, err := catalog.Engine().Broadcast(ctx, message.New(0b0010, 10).WithTags("score"))

# Lifecycle

Set is idempotent per identity: registering the same component again
destroys the previous tree first, so no orphaned listeners accumulate.
Disable pauses a whole tree without touching the individual nodes,
Enable resumes it, Destroy tears it down and removes it from the
dispatch registry. Catalog operations on nil or unknown identities are
silent no-ops; a declaration naming a method the component does not
have fails loudly with ErrMissingHandler.

# Concurrency

Registration, tree mutation and dispatch assume a single logical owner,
typically one update loop. Publishing is synchronous on the caller's
goroutine and runs to completion or until a receiver consumes the
message with message.Stop.
*/
package dlcs
