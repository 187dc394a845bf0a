package runner

import (
	"context"

	"embydebug/internal/emby"
)

func (r *Runner) caseGenres(ctx context.Context, s *Session) error {
	genres, err := s.Server.Genres(ctx, s.Library.ID)
	if err != nil {
		r.errorf("failed to retrieve genres: %v", err)
		return err
	}
	r.statusf("Retrieved %d genres from library %s", len(genres), s.Library.Name)
	r.printJSON(genres)
	return nil
}

func (r *Runner) caseItems(ctx context.Context, s *Session) error {
	r.statusf("Search current library for matching items.")
	for {
		title := r.prompt.Ask("Enter optional item or album name. Leave blank to ignore, or '.' to skip: ")
		if title == Sentinel {
			return nil
		}
		artist := r.prompt.Ask("Enter optional artist name. Leave blank to ignore, or '.' to skip: ")
		if artist == Sentinel {
			return nil
		}
		genre := r.prompt.Ask("Enter optional genre. Leave blank to ignore, or '.' to skip: ")
		if genre == Sentinel {
			return nil
		}
		lyrics := r.prompt.Ask("Enter optional text from lyrics. Leave blank to ignore, or '.' to skip: ")
		if lyrics == Sentinel {
			return nil
		}
		years := r.prompt.Ask("Enter release years as comma separated list. Leave blank to ignore, or '.' to skip: ")
		if years == Sentinel {
			return nil
		}

		q := emby.ItemQuery{SearchTerm: title, Artist: artist, Genre: genre, Lyrics: lyrics}
		if years != "" {
			parsed, err := ParseIntList(years)
			if err != nil {
				r.errorf("%v", err)
				continue
			}
			q.Years = parsed
		}

		list, err := s.Server.Items(ctx, s.UserID, s.Library.ID, q)
		if err != nil {
			r.errorf("failed to retrieve items: %v", err)
			continue
		}
		r.statusf("Retrieved %d items from library '%s'", len(list.Items), s.Library.Name)
		r.printJSON(list.Items)
	}
}

func (r *Runner) caseUsers(ctx context.Context, s *Session) error {
	users, err := s.Server.Users(ctx, emby.UserQuery{})
	if err != nil {
		r.errorf("failed to retrieve user list: %v", err)
		return err
	}
	r.statusf("Retrieved %d users from Emby", len(users))
	r.printJSON(users)
	return nil
}
