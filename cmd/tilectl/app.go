package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/tilewx/backend/internal/geocoding"
	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/share"
	"github.com/tilewx/backend/internal/tiles"
	"github.com/tilewx/backend/internal/weather"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.FgHiBlack)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	tempColor   = color.New(color.FgHiWhite, color.Bold)
)

// Searcher, Codec and Forecaster are satisfied by the geocoding, share and weather packages.
type (
	Searcher interface {
		Search(ctx context.Context, query string) ([]models.SearchCandidate, error)
	}
	Codec interface {
		Encode(ctx context.Context, entries []models.LocationEntry) (string, error)
		Decode(ctx context.Context, token string) []models.LocationEntry
	}
	Forecaster interface {
		Fetch(ctx context.Context, lat, lon float64, unit weather.Unit) (*models.WeatherData, error)
	}
)

var errUsage = errors.New("usage")

// app runs one subcommand against the saved tile list.
type app struct {
	out        io.Writer
	store      *tiles.FileStore
	search     Searcher
	codec      Codec
	forecaster Forecaster
	publicURL  string
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "search":
		return a.cmdSearch(ctx, rest)
	case "add":
		return a.cmdAdd(ctx, rest)
	case "list", "ls":
		return a.cmdList()
	case "remove", "rm":
		return a.cmdRemove(rest)
	case "move", "mv":
		return a.cmdMove(rest)
	case "share":
		return a.cmdShare(ctx)
	case "link":
		return a.cmdLink(ctx, rest)
	case "load":
		return a.cmdLoad(ctx, rest)
	case "weather":
		return a.cmdWeather(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	results, err := a.search.Search(ctx, query)
	if err != nil {
		return searchError(err)
	}
	if len(results) == 0 {
		warnColor.Fprintln(a.out, "No matches.")
		return nil
	}
	for i, c := range results {
		fmt.Fprintf(a.out, "%2d. %s %s\n", i+1, c.Name, dimColor.Sprint(region(c.Admin1, c.Country)))
	}
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	pick := fs.Int("pick", 1, "which search result to add (1-based)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	results, err := a.search.Search(ctx, strings.Join(fs.Args(), " "))
	if err != nil {
		return searchError(err)
	}
	if *pick < 1 || *pick > len(results) {
		return fmt.Errorf("no result #%d (%d matches)", *pick, len(results))
	}

	state, list, err := a.loadList()
	if err != nil {
		return err
	}
	entry := results[*pick-1].Select()
	if !list.Add(entry) {
		warnColor.Fprintf(a.out, "%s is already on the board.\n", entry.Name)
		return nil
	}
	if err := a.saveList(state, list); err != nil {
		return err
	}
	okColor.Fprintf(a.out, "Added %s %s\n", entry.Name, dimColor.Sprint(region(entry.Admin1, entry.Country)))
	return nil
}

func (a *app) cmdList() error {
	_, list, err := a.loadList()
	if err != nil {
		return err
	}
	if list.Len() == 0 {
		dimColor.Fprintln(a.out, "No tiles yet. Try: tilectl add <city>")
		return nil
	}

	headerColor.Fprintf(a.out, "%d tiles\n", list.Len())
	for i, e := range list.Entries() {
		fmt.Fprintf(a.out, "%2d. %-24s %s %s %s\n",
			i+1, e.Name,
			dimColor.Sprint(region(e.Admin1, e.Country)),
			dimColor.Sprintf("(%.4f, %.4f)", e.Latitude, e.Longitude),
			dimColor.Sprint(e.Timezone))
	}
	return nil
}

func (a *app) cmdRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("remove takes one tile number or id: %w", errUsage)
	}

	state, list, err := a.loadList()
	if err != nil {
		return err
	}
	entry, err := resolveTile(list, args[0])
	if err != nil {
		return err
	}
	list.Remove(entry.ID)
	if err := a.saveList(state, list); err != nil {
		return err
	}
	okColor.Fprintf(a.out, "Removed %s\n", entry.Name)
	return nil
}

func (a *app) cmdMove(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("move takes two tile numbers: %w", errUsage)
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("move takes two tile numbers: %w", errUsage)
	}

	state, list, err := a.loadList()
	if err != nil {
		return err
	}
	if err := list.Move(from-1, to-1); err != nil {
		return err
	}
	return a.saveList(state, list)
}

func (a *app) cmdShare(ctx context.Context) error {
	_, list, err := a.loadList()
	if err != nil {
		return err
	}
	if list.Len() == 0 {
		return errors.New("nothing to share")
	}

	code, err := a.codec.Encode(ctx, list.Entries())
	if err != nil {
		return err
	}
	return a.printLink(code)
}

func (a *app) cmdLink(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("link", flag.ContinueOnError)
	fs.SetOutput(a.out)
	legacy := fs.Bool("legacy", false, "print a self-contained link that needs no share store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*legacy {
		return a.cmdShare(ctx)
	}

	_, list, err := a.loadList()
	if err != nil {
		return err
	}
	if list.Len() == 0 {
		return errors.New("nothing to share")
	}
	return a.printLink(share.EncodeLegacy(list.Entries()))
}

func (a *app) cmdLoad(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("load takes one code or link: %w", errUsage)
	}

	token := tiles.TokenFromURL(args[0])
	entries := a.codec.Decode(ctx, token)
	if len(entries) == 0 {
		warnColor.Fprintln(a.out, "Nothing could be loaded from that link.")
		return nil
	}

	state, list, err := a.loadList()
	if err != nil {
		return err
	}
	list.Replace(entries)
	if err := a.saveList(state, list); err != nil {
		return err
	}
	okColor.Fprintf(a.out, "Loaded %d tiles (%s)\n", list.Len(), share.Classify(token))
	return nil
}

func (a *app) cmdWeather(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("weather", flag.ContinueOnError)
	fs.SetOutput(a.out)
	unitFlag := fs.String("unit", "", "celsius or fahrenheit (remembered)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state, list, err := a.loadList()
	if err != nil {
		return err
	}
	if *unitFlag != "" {
		state.Unit = *unitFlag
	}
	unit, err := weather.ParseUnit(state.Unit)
	if err != nil {
		return err
	}
	if *unitFlag != "" {
		state.Unit = string(unit)
		if err := a.saveList(state, list); err != nil {
			return err
		}
	}

	for _, e := range list.Entries() {
		data, err := a.forecaster.Fetch(ctx, e.Latitude, e.Longitude, unit)
		if err != nil {
			warnColor.Fprintf(a.out, "%-24s unavailable (%v)\n", e.Name, err)
			continue
		}
		printForecast(a.out, e, data, unit)
	}
	return nil
}

func printForecast(out io.Writer, e models.LocationEntry, data *models.WeatherData, unit weather.Unit) {
	info := weather.Describe(data.Current.WeatherCode)
	fmt.Fprintf(out, "%s %-22s %s %s  feels %s  %s %s\n",
		info.Symbol,
		e.Name,
		tempColor.Sprint(weather.FormatTemp(&data.Current.Temperature, unit)),
		info.Description,
		weather.FormatTemp(&data.Current.FeelsLike, unit),
		dimColor.Sprintf("%.0f%%", data.Current.Humidity),
		dimColor.Sprintf("%.0f %s", data.Current.WindSpeed, data.Units.WindSpeed))

	d := data.Daily
	var days []string
	for i := 1; i < len(d.Time) && i < len(d.WeatherCode) && i < len(d.TempMax) && i < len(d.TempMin); i++ {
		days = append(days, fmt.Sprintf("%s %s/%s",
			weather.Describe(d.WeatherCode[i]).Symbol,
			weather.FormatTemp(&d.TempMax[i], unit),
			weather.FormatTemp(&d.TempMin[i], unit)))
	}
	if len(days) > 0 {
		fmt.Fprintf(out, "   %s\n", dimColor.Sprint(strings.Join(days, "  ")))
	}
}

func (a *app) printLink(token string) error {
	if a.publicURL == "" {
		fmt.Fprintln(a.out, token)
		return nil
	}
	link, err := tiles.ShareURL(a.publicURL, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, link)
	return nil
}

func (a *app) loadList() (*tiles.State, *tiles.List, error) {
	state, err := a.store.Load()
	if err != nil {
		return nil, nil, err
	}
	return state, tiles.NewList(state.Locations), nil
}

func (a *app) saveList(state *tiles.State, list *tiles.List) error {
	state.Locations = list.Entries()
	return a.store.Save(state)
}

// resolveTile accepts a 1-based tile number or an entry ID.
func resolveTile(list *tiles.List, ref string) (models.LocationEntry, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		entries := list.Entries()
		if n < 1 || n > len(entries) {
			return models.LocationEntry{}, fmt.Errorf("no tile #%d", n)
		}
		return entries[n-1], nil
	}
	if e, ok := list.Find(ref); ok {
		return e, nil
	}
	return models.LocationEntry{}, fmt.Errorf("no tile with id %s", ref)
}

func region(admin1, country string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{admin1, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func searchError(err error) error {
	var failed *geocoding.SearchFailedError
	if errors.As(err, &failed) {
		return fmt.Errorf("search service answered %d, try again later", failed.Status)
	}
	return fmt.Errorf("search failed: %w", err)
}
