package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
	"github.com/amatsuka/notion-blog/pkg/notionblog/cache"
	"github.com/amatsuka/notion-blog/pkg/notionblog/config"
	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
	"github.com/amatsuka/notion-blog/pkg/notionblog/publish"
)

var (
	configFile string

	publishTarget string
	publishDir    string
	publishBucket string
	publishRegion string
	publishPrefix string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Inspect and publish the Notion-backed content set",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: environment only)")

	rootCmd.AddCommand(postsCmd())
	rootCmd.AddCommand(postCmd())
	rootCmd.AddCommand(friendsCmd())
	rootCmd.AddCommand(tocCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildService wires the service from configuration. Fatal on missing
// credentials so every subcommand gets the same preflight. The returned
// cleanup closes the persistent derived cache, if one is configured.
func buildService() (notionblog.Service, *config.Config, func()) {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := notion.NewClient(cfg.NotionToken)
	source := notionblog.NewNotionSource(client, cfg.PostsDatabaseID, cfg.FriendsDatabaseID,
		notionblog.WithSourceLogger(logger))

	cleanup := func() {}
	derivedOpts := []notionblog.DerivedOption{notionblog.WithDerivedLogger(logger)}
	if cfg.CachePath != "" {
		store, err := cache.Open(cfg.CachePath)
		if err != nil {
			log.Fatalf("Failed to open derived cache: %v", err)
		}
		derivedOpts = append(derivedOpts, notionblog.WithStore(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing derived cache failed", "error", err)
			}
		}
	}

	svc, err := notionblog.New(
		notionblog.WithSource(source),
		notionblog.WithSiteInfo(notionblog.SiteInfo{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			Image:       cfg.Site.Image,
			Keywords:    cfg.Site.Keywords,
			Author:      cfg.Site.Author,
		}),
		notionblog.WithDerivedCache(notionblog.NewDerivedCache(source, derivedOpts...)),
		notionblog.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	return svc, cfg, cleanup
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(out))
}

func postsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List published posts, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			svc, _, cleanup := buildService()
			defer cleanup()
			ctx, cancel := cmdContext()
			defer cancel()

			posts, err := svc.GetAllPosts(ctx)
			if err != nil {
				log.Fatalf("Failed to fetch posts: %v", err)
			}
			printJSON(posts)
		},
	}
}

func postCmd() *cobra.Command {
	var includeDrafts bool
	cmd := &cobra.Command{
		Use:   "post <slug>",
		Short: "Show one post by slug",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, _, cleanup := buildService()
			defer cleanup()
			ctx, cancel := cmdContext()
			defer cancel()

			post, err := svc.GetPostBySlug(ctx, args[0], !includeDrafts)
			if err != nil {
				log.Fatalf("Failed to fetch post %q: %v", args[0], err)
			}
			printJSON(post)
		},
	}
	cmd.Flags().BoolVar(&includeDrafts, "include-drafts", false, "return the post even if unpublished")
	return cmd
}

func friendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "List active friend links, by name",
		Run: func(cmd *cobra.Command, args []string) {
			svc, _, cleanup := buildService()
			defer cleanup()
			ctx, cancel := cmdContext()
			defer cancel()

			friends, err := svc.GetAllFriends(ctx)
			if err != nil {
				log.Fatalf("Failed to fetch friends: %v", err)
			}
			printJSON(friends)
		},
	}
}

func tocCmd() *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "toc <slug>",
		Short: "Show the generated outline and reading time for a post",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, _, cleanup := buildService()
			defer cleanup()
			ctx, cancel := cmdContext()
			defer cancel()

			post, err := svc.GetPostBySlug(ctx, args[0], true)
			if err != nil {
				log.Fatalf("Failed to fetch post %q: %v", args[0], err)
			}
			toc, err := svc.TableOfContents(ctx, post.ID, !noCache)
			if err != nil {
				log.Fatalf("Failed to extract outline: %v", err)
			}
			minutes, err := svc.ReadingTime(ctx, post.ID, !noCache)
			if err != nil {
				log.Fatalf("Failed to estimate reading time: %v", err)
			}
			printJSON(map[string]any{"toc": toc, "reading_time": minutes})
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute instead of using cached values")
	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Snapshot the content set to a filesystem directory or S3 bucket",
		Run: func(cmd *cobra.Command, args []string) {
			svc, _, cleanup := buildService()
			defer cleanup()
			ctx, cancel := cmdContext()
			defer cancel()

			var (
				store publish.Store
				err   error
			)
			switch publishTarget {
			case "fs":
				store, err = publish.NewFSStore(publish.FSConfig{BaseDir: publishDir})
			case "s3":
				store, err = publish.NewS3Store(publish.S3Config{
					Bucket:          publishBucket,
					Region:          publishRegion,
					AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
					SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				})
			default:
				log.Fatalf("Unknown publish target %q (use fs or s3)", publishTarget)
			}
			if err != nil {
				log.Fatalf("Failed to create %s store: %v", publishTarget, err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			n, err := publish.NewPublisher(svc, store, publishPrefix, logger).Publish(ctx)
			if err != nil {
				log.Fatalf("Publish failed: %v", err)
			}
			fmt.Printf("Published %d posts\n", n)
		},
	}
	cmd.Flags().StringVar(&publishTarget, "target", "fs", "publish target: fs or s3")
	cmd.Flags().StringVar(&publishDir, "dir", "./public/data", "output directory for the fs target")
	cmd.Flags().StringVar(&publishBucket, "bucket", "", "bucket for the s3 target")
	cmd.Flags().StringVar(&publishRegion, "region", "", "region for the s3 target")
	cmd.Flags().StringVar(&publishPrefix, "prefix", "", "key prefix for published artifacts")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and remote connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			svc, cfg, cleanup := buildService()
			defer cleanup()
			ctx, cancel := cmdContext()
			defer cancel()

			if err := svc.BuildSlugIndex(ctx); err != nil {
				log.Fatalf("Connectivity check failed: %v", err)
			}
			posts, err := svc.GetAllPosts(ctx)
			if err != nil {
				log.Fatalf("Post fetch failed: %v", err)
			}
			fmt.Printf("OK: %d published posts in database %s\n", len(posts), cfg.PostsDatabaseID)
		},
	}
}
