// ABOUTME: Service is the conversation state machine: routes each message by session step
// ABOUTME: Valid input advances the step; invalid input re-prompts; cancel always resets

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/convbot/convbot/internal/convert"
	"github.com/convbot/convbot/internal/expr"
	"github.com/convbot/convbot/internal/session"
	"github.com/convbot/convbot/internal/store"
	"github.com/convbot/convbot/internal/units"
)

// Persistence defines what the service needs from storage. Calls happen at
// well-defined transition points and never gate the next prompt.
type Persistence interface {
	SaveConversion(ctx context.Context, c *store.Conversion) error
	ListConversions(ctx context.Context, sessionID string, limit int) ([]*store.Conversion, error)
	SaveFavorite(ctx context.Context, f *store.Favorite) error
	ListFavorites(ctx context.Context, sessionID string) ([]*store.Favorite, error)
	DeleteFavorite(ctx context.Context, sessionID, name string) error
}

// Reply is what a frontend renders back to the user. Options are
// suggestions in presentation order; frontends decide how to show them.
type Reply struct {
	Text       string
	Options    []string
	EndSession bool
}

// Post-result option labels. Frontends show them verbatim; matching is
// case-insensitive.
const (
	OptionNewConversion = "New conversion"
	OptionAnotherValue  = "Another value"
	OptionSaveFavorite  = "Save to favorites"
	OptionDone          = "Done"
	OptionStartConvert  = "Convert"
)

// persistTimeout bounds history/favorites writes so a slow store cannot
// stall the dialogue.
const persistTimeout = 5 * time.Second

// Service coordinates the registry, resolver, engine, validator, and the
// session store into one dialogue.
type Service struct {
	sessions    session.Store
	persistence Persistence
	registry    *units.Registry
	resolver    *units.Resolver
	engine      *convert.Engine
	logger      *slog.Logger
}

// New creates a conversation service.
func New(sessions session.Store, persistence Persistence, registry *units.Registry, resolver *units.Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:    sessions,
		persistence: persistence,
		registry:    registry,
		resolver:    resolver,
		engine:      convert.NewEngine(resolver),
		logger:      logger.With("component", "conversation"),
	}
}

// HandleInput processes one message for one session. The session store
// serializes concurrent calls for the same session; calls for different
// sessions run in parallel.
func (s *Service) HandleInput(ctx context.Context, sessionID, raw string) (Reply, error) {
	var reply Reply
	err := s.sessions.Do(ctx, sessionID, func(sess *session.Session) error {
		reply = s.dispatch(ctx, sess, strings.TrimSpace(raw))
		return nil
	})
	return reply, err
}

// dispatch routes input by command first, then by the session's step.
func (s *Service) dispatch(ctx context.Context, sess *session.Session, input string) Reply {
	switch normalizeCommand(input) {
	case "cancel":
		sess.Reset()
		return Reply{
			Text:       "Conversion cancelled. Send /convert to start again.",
			EndSession: true,
		}
	case "help":
		return s.helpReply(sess)
	case "categories":
		return Reply{
			Text:    "Available categories:\n" + bulletList(s.registry.Categories()),
			Options: s.currentOptions(sess),
		}
	case "favorites":
		return s.favoritesReply(ctx, sess)
	case "history":
		return s.historyReply(ctx, sess)
	}

	if name, ok := forgetTarget(input); ok {
		return s.forgetFavoriteReply(ctx, sess, name)
	}

	switch sess.Step {
	case session.StepIdle:
		return s.handleIdle(ctx, sess, input)
	case session.StepSelectCategory:
		return s.handleSelectCategory(sess, input)
	case session.StepSelectUnitFrom:
		return s.handleSelectUnitFrom(sess, input)
	case session.StepSelectUnitTo:
		return s.handleSelectUnitTo(sess, input)
	case session.StepEnterValue:
		return s.handleEnterValue(ctx, sess, input)
	case session.StepPostResult:
		return s.handlePostResult(ctx, sess, input)
	default:
		s.logger.Error("session in unknown step, resetting",
			"session_id", sess.ID,
			"step", sess.Step)
		sess.Reset()
		return Reply{Text: "Something went wrong — let's start over. Send /convert to begin."}
	}
}

// handleIdle starts a conversion flow, or jumps straight to value entry
// when the input names a saved favorite.
func (s *Service) handleIdle(ctx context.Context, sess *session.Session, input string) Reply {
	switch normalizeCommand(input) {
	case "start":
		return Reply{
			Text: "Hi! I convert values between units of physical quantities.\n" +
				"Send /convert to start, or /help for instructions.",
		}
	case "convert":
		sess.Step = session.StepSelectCategory
		return s.promptCategory()
	}

	if fav, ok := s.findFavorite(ctx, sess.ID, input); ok {
		sess.Category = fav.Category
		sess.UnitFrom = fav.UnitFrom
		sess.UnitTo = fav.UnitTo
		sess.Step = session.StepEnterValue
		return s.promptValue(sess)
	}

	return Reply{
		Text:    "Send /convert to start a conversion, or /help for instructions.",
		Options: []string{OptionStartConvert},
	}
}

func (s *Service) handleSelectCategory(sess *session.Session, input string) Reply {
	if isBack(input) {
		sess.Reset()
		return Reply{Text: "Okay. Send /convert to start a conversion."}
	}

	name, ok := matchName(input, s.registry.Categories())
	if !ok {
		reply := s.promptCategory()
		reply.Text = "Please choose one of the offered categories.\n\n" + reply.Text
		return reply
	}

	sess.Category = name
	sess.Step = session.StepSelectUnitFrom
	return s.promptUnitFrom(sess)
}

func (s *Service) handleSelectUnitFrom(sess *session.Session, input string) Reply {
	if isBack(input) {
		sess.UnitFrom = ""
		sess.Step = session.StepSelectCategory
		return s.promptCategory()
	}

	names, _ := s.registry.Units(sess.Category)
	name, ok := matchName(input, names)
	if !ok {
		reply := s.promptUnitFrom(sess)
		reply.Text = "Please choose one of the offered units.\n\n" + reply.Text
		return reply
	}

	sess.UnitFrom = name
	sess.Step = session.StepSelectUnitTo
	return s.promptUnitTo(sess)
}

func (s *Service) handleSelectUnitTo(sess *session.Session, input string) Reply {
	if isBack(input) {
		sess.UnitTo = ""
		sess.Step = session.StepSelectUnitFrom
		return s.promptUnitFrom(sess)
	}

	name, ok := matchName(input, s.targetUnits(sess))
	if !ok {
		reply := s.promptUnitTo(sess)
		reply.Text = "Please choose one of the offered units.\n\n" + reply.Text
		return reply
	}

	sess.UnitTo = name
	sess.Step = session.StepEnterValue
	return s.promptValue(sess)
}

func (s *Service) handleEnterValue(ctx context.Context, sess *session.Session, input string) Reply {
	if isBack(input) {
		sess.UnitTo = ""
		sess.Step = session.StepSelectUnitTo
		return s.promptUnitTo(sess)
	}

	value, err := expr.Parse(input)
	if err != nil {
		var pe *expr.ParseError
		if errors.As(err, &pe) {
			return Reply{Text: "❌ " + pe.Message}
		}
		return Reply{Text: "❌ Please enter a valid numeric value."}
	}

	result, err := s.engine.Convert(value, sess.UnitFrom, sess.UnitTo, sess.Category)
	if err != nil {
		return s.conversionErrorReply(sess, err)
	}

	formatted := convert.Format(result)
	sess.LastResult = &session.Result{
		ID:        uuid.New().String(),
		Category:  sess.Category,
		UnitFrom:  sess.UnitFrom,
		UnitTo:    sess.UnitTo,
		Value:     value,
		Result:    result,
		Formatted: formatted,
		CreatedAt: time.Now(),
	}
	sess.Step = session.StepPostResult

	text := fmt.Sprintf("✅ %s %s = %s %s",
		convert.Format(value), sess.UnitFrom, formatted, sess.UnitTo)

	if err := s.saveConversion(sess.ID, sess.LastResult); err != nil {
		// Result shown but not saved; report, never unwind.
		text += "\n(couldn't save this to your history)"
	}

	return Reply{
		Text:    text,
		Options: postResultOptions(),
	}
}

func (s *Service) handlePostResult(ctx context.Context, sess *session.Session, input string) Reply {
	switch strings.ToLower(input) {
	case strings.ToLower(OptionNewConversion):
		sess.Category = ""
		sess.UnitFrom = ""
		sess.UnitTo = ""
		sess.Step = session.StepSelectCategory
		return s.promptCategory()

	case strings.ToLower(OptionAnotherValue):
		sess.Step = session.StepEnterValue
		return s.promptValue(sess)

	case strings.ToLower(OptionSaveFavorite):
		return s.saveFavoriteReply(sess)

	case strings.ToLower(OptionDone):
		sess.Reset()
		return Reply{
			Text:       "Done! Send /convert whenever you need another conversion.",
			EndSession: true,
		}
	}

	return Reply{
		Text:    "Please use one of the offered options.",
		Options: postResultOptions(),
	}
}

// saveFavoriteReply persists the last result's unit pair. The session stays
// in PostResult so the user can keep converting.
func (s *Service) saveFavoriteReply(sess *session.Session) Reply {
	last := sess.LastResult
	if last == nil {
		sess.Reset()
		return Reply{Text: "There is no result to save. Send /convert to start a conversion."}
	}

	name := last.UnitFrom + " → " + last.UnitTo
	saveCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := s.persistence.SaveFavorite(saveCtx, &store.Favorite{
		ID:        uuid.New().String(),
		SessionID: sess.ID,
		Name:      name,
		Category:  last.Category,
		UnitFrom:  last.UnitFrom,
		UnitTo:    last.UnitTo,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to save favorite",
			"error", err,
			"session_id", sess.ID,
			"name", name)
		return Reply{
			Text:    "Couldn't save the favorite right now — the conversion itself is unaffected.",
			Options: postResultOptions(),
		}
	}

	return Reply{
		Text:    fmt.Sprintf("Saved %q to your favorites. Send its name from the start screen to reuse it.", name),
		Options: postResultOptions(),
	}
}

// saveConversion records history with its own timeout context so a slow
// store cannot stall the reply.
func (s *Service) saveConversion(sessionID string, r *session.Result) error {
	saveCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := s.persistence.SaveConversion(saveCtx, &store.Conversion{
		ID:        r.ID,
		SessionID: sessionID,
		Category:  r.Category,
		UnitFrom:  r.UnitFrom,
		UnitTo:    r.UnitTo,
		Value:     r.Value,
		Result:    r.Result,
		CreatedAt: r.CreatedAt,
	})
	if err != nil {
		s.logger.Error("failed to save conversion",
			"error", err,
			"session_id", sessionID,
			"conversion_id", r.ID)
	}
	return err
}

// conversionErrorReply sorts engine errors into user mistakes (reported,
// value re-prompted) and configuration errors (logged, session reset).
func (s *Service) conversionErrorReply(sess *session.Session, err error) Reply {
	switch {
	case errors.Is(err, convert.ErrBelowAbsoluteZero):
		return Reply{Text: "❌ That temperature is below absolute zero. Enter another value."}
	case errors.Is(err, convert.ErrNonFinite):
		return Reply{Text: "❌ The result is not a finite number. Enter another value."}
	default:
		// UnknownUnit / IncompatibleKinds cannot happen with a consistent
		// catalog; treat as fatal to the request.
		s.logger.Error("conversion failed unexpectedly",
			"error", err,
			"session_id", sess.ID,
			"category", sess.Category,
			"unit_from", sess.UnitFrom,
			"unit_to", sess.UnitTo)
		sess.Reset()
		return Reply{Text: "Something went wrong — let's start over. Send /convert to begin."}
	}
}

// forgetFavoriteReply removes a saved favorite by name, matched
// case-insensitively like the Idle shortcut.
func (s *Service) forgetFavoriteReply(ctx context.Context, sess *session.Session, name string) Reply {
	if name == "" {
		return Reply{
			Text:    "Usage: /forget <favorite name>. Send /favorites to list them.",
			Options: s.currentOptions(sess),
		}
	}

	fav, ok := s.findFavorite(ctx, sess.ID, name)
	if !ok {
		return Reply{
			Text:    fmt.Sprintf("No favorite named %q. Send /favorites to list them.", name),
			Options: s.currentOptions(sess),
		}
	}

	delCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	if err := s.persistence.DeleteFavorite(delCtx, sess.ID, fav.Name); err != nil {
		s.logger.Error("failed to delete favorite",
			"error", err,
			"session_id", sess.ID,
			"name", fav.Name)
		return Reply{
			Text:    "Couldn't remove the favorite right now.",
			Options: s.currentOptions(sess),
		}
	}

	return Reply{
		Text:    fmt.Sprintf("Removed %q from your favorites.", fav.Name),
		Options: s.currentOptions(sess),
	}
}

// findFavorite resolves input against the session's saved favorites.
func (s *Service) findFavorite(ctx context.Context, sessionID, input string) (*store.Favorite, bool) {
	if input == "" {
		return nil, false
	}
	listCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	favs, err := s.persistence.ListFavorites(listCtx, sessionID)
	if err != nil {
		s.logger.Error("failed to list favorites", "error", err, "session_id", sessionID)
		return nil, false
	}
	for _, f := range favs {
		if strings.EqualFold(f.Name, input) {
			return f, true
		}
	}
	return nil, false
}

// historyRecall bounds how much history the /history command shows.
const historyRecall = 5

func (s *Service) historyReply(ctx context.Context, sess *session.Session) Reply {
	listCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	convs, err := s.persistence.ListConversions(listCtx, sess.ID, historyRecall)
	if err != nil {
		s.logger.Error("failed to list conversions", "error", err, "session_id", sess.ID)
		return Reply{
			Text:    "Couldn't load your history right now.",
			Options: s.currentOptions(sess),
		}
	}
	if len(convs) == 0 {
		return Reply{
			Text:    "No conversions yet. Send /convert to make one.",
			Options: s.currentOptions(sess),
		}
	}

	var b strings.Builder
	b.WriteString("Your recent conversions:\n")
	for _, c := range convs {
		fmt.Fprintf(&b, "• %s %s = %s %s\n",
			convert.Format(c.Value), c.UnitFrom, convert.Format(c.Result), c.UnitTo)
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Options: s.currentOptions(sess)}
}

func (s *Service) favoritesReply(ctx context.Context, sess *session.Session) Reply {
	listCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	favs, err := s.persistence.ListFavorites(listCtx, sess.ID)
	if err != nil {
		s.logger.Error("failed to list favorites", "error", err, "session_id", sess.ID)
		return Reply{
			Text:    "Couldn't load your favorites right now.",
			Options: s.currentOptions(sess),
		}
	}
	if len(favs) == 0 {
		return Reply{
			Text:    "You have no favorites yet. After a conversion, choose \"Save to favorites\".",
			Options: s.currentOptions(sess),
		}
	}

	var b strings.Builder
	b.WriteString("Your favorites:\n")
	for _, f := range favs {
		fmt.Fprintf(&b, "• %s (%s)\n", f.Name, f.Category)
	}
	b.WriteString("Send a favorite's name from the start screen to reuse it, or /forget <name> to remove it.")
	return Reply{Text: b.String(), Options: s.currentOptions(sess)}
}

// Prompts

func (s *Service) promptCategory() Reply {
	return Reply{
		Text:    "📊 Choose a category:",
		Options: s.registry.Categories(),
	}
}

func (s *Service) promptUnitFrom(sess *session.Session) Reply {
	names, _ := s.registry.Units(sess.Category)
	return Reply{
		Text:    fmt.Sprintf("📏 %s: choose the source unit:", sess.Category),
		Options: names,
	}
}

func (s *Service) promptUnitTo(sess *session.Session) Reply {
	return Reply{
		Text:    "🎯 Choose the target unit:",
		Options: s.targetUnits(sess),
	}
}

func (s *Service) promptValue(sess *session.Session) Reply {
	return Reply{
		Text: fmt.Sprintf("🔢 Enter the value to convert from %s to %s.\n"+
			"Numbers (10, 15.5, -40), fractions (1/2), constants (pi) and expressions (sqrt(2)) all work.",
			sess.UnitFrom, sess.UnitTo),
	}
}

// targetUnits is the merged compatible unit list minus the source unit.
func (s *Service) targetUnits(sess *session.Session) []string {
	merged := s.resolver.MergedUnits(sess.Category)
	names := make([]string, 0, len(merged))
	for _, def := range merged {
		if def.Name == sess.UnitFrom {
			continue
		}
		names = append(names, def.Name)
	}
	return names
}

// currentOptions re-offers whatever the session's step was offering, so
// informational commands don't strand the user without choices.
func (s *Service) currentOptions(sess *session.Session) []string {
	switch sess.Step {
	case session.StepSelectCategory:
		return s.registry.Categories()
	case session.StepSelectUnitFrom:
		names, _ := s.registry.Units(sess.Category)
		return names
	case session.StepSelectUnitTo:
		return s.targetUnits(sess)
	case session.StepPostResult:
		return postResultOptions()
	default:
		return nil
	}
}

func (s *Service) helpReply(sess *session.Session) Reply {
	text := "📋 Commands:\n" +
		"/convert — start a conversion\n" +
		"/categories — list available categories\n" +
		"/favorites — list your saved unit pairs\n" +
		"/forget <name> — remove a saved unit pair\n" +
		"/history — show your recent conversions\n" +
		"/back — go one step back\n" +
		"/cancel — abandon the current conversion\n\n" +
		"Flow: pick a category, a source unit, a target unit, then enter a value.\n" +
		"Example: Length, inch, centimeter, 10 → 25.4"
	return Reply{Text: text, Options: s.currentOptions(sess)}
}

func postResultOptions() []string {
	return []string{OptionNewConversion, OptionAnotherValue, OptionSaveFavorite, OptionDone}
}

// normalizeCommand folds the accepted spellings of each command into one
// token. Anything else returns "" and flows to the step handlers.
func normalizeCommand(input string) string {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/start":
		return "start"
	case "/convert", "convert":
		return "convert"
	case "/cancel", "cancel":
		return "cancel"
	case "/help", "help":
		return "help"
	case "/categories", "categories":
		return "categories"
	case "/favorites", "favorites":
		return "favorites"
	case "/history", "history":
		return "history"
	default:
		return ""
	}
}

// forgetTarget extracts the favorite name from a forget command. A bare
// forget with no name still matches, so the handler can show usage.
func forgetTarget(input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, prefix := range []string{"/forget", "forget"} {
		if lower == prefix {
			return "", true
		}
		if strings.HasPrefix(lower, prefix+" ") {
			return strings.TrimSpace(input[len(prefix)+1:]), true
		}
	}
	return "", false
}

func isBack(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return lower == "back" || lower == "/back"
}

// bulletList renders names one per line with a bullet prefix.
func bulletList(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString("• ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// matchName resolves input against candidates case-insensitively.
func matchName(input string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.EqualFold(c, input) {
			return c, true
		}
	}
	return "", false
}
