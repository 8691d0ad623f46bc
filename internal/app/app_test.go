package app

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/iconpack/internal/artifact"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/hcl"
	"github.com/specialistvlad/iconpack/internal/ledger"
	"github.com/specialistvlad/iconpack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assetServer mimics the asynchronous asset API. The first submission fails
// with 503; every operation completes on its second poll.
type assetServer struct {
	mu      sync.Mutex
	posts   int
	polls   map[string]int
	names   []string
	created int
}

func (s *assetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/assets":
		s.posts++
		if s.posts == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		var meta struct {
			DisplayName string `json:"displayName"`
		}
		_ = json.Unmarshal([]byte(r.FormValue("request")), &meta)
		s.names = append(s.names, meta.DisplayName)
		s.created++
		fmt.Fprintf(w, `{"operationId":"op-%d"}`, s.created)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/operations/"):
		id := strings.TrimPrefix(r.URL.Path, "/operations/")
		s.polls[id]++
		if s.polls[id] < 2 {
			fmt.Fprint(w, `{"done":false}`)
			return
		}
		n, _ := strconv.Atoi(strings.TrimPrefix(id, "op-"))
		fmt.Fprintf(w, `{"done":true,"response":{"assetId":"%d"}}`, 500+n)
	default:
		http.NotFound(w, r)
	}
}

var assetIDs = regexp.MustCompile(`local AssetIds = \{([0-9, ]*)\}`)

// sandbox answers the run command by echoing every primary id + 1000 as a
// texture reference, the way the real script prints its results.
type sandbox struct {
	mu    sync.Mutex
	argvs [][]string
}

func (s *sandbox) Run(ctx context.Context, argv []string) ([]byte, error) {
	s.mu.Lock()
	s.argvs = append(s.argvs, argv)
	s.mu.Unlock()
	if argv[0] != "run" {
		return nil, nil
	}
	src, err := os.ReadFile(argv[1])
	if err != nil {
		return nil, err
	}
	m := assetIDs.FindStringSubmatch(string(src))
	if m == nil {
		return nil, fmt.Errorf("no ids in script")
	}
	out := map[string]string{}
	for _, part := range strings.Split(m[1], ",") {
		id, _ := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		out[strconv.FormatInt(id, 10)] = "rbxassetid://" + strconv.FormatInt(id+1000, 10)
	}
	data, _ := json.Marshal(out)
	return append([]byte("Loading place...\n"), append(data, '\n')...), nil
}

type fixture struct {
	root    string
	out     artifact.Layout
	lookup  string
	config  string
	server  *assetServer
	sandbox *sandbox
	ledger  *ledger.Memory
}

func newFixture(t *testing.T, extra string) *fixture {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "png")

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	var icons []testutil.IconFixture
	for _, name := range []string{"edit", "add", "delete", "home", "menu"} {
		icons = append(icons, testutil.IconFixture{Category: "action", Name: name, StyleDir: "materialicons", SizeDir: "18dp", ScaleDir: "1x", Width: 18, Color: white})
	}
	icons = append(icons, testutil.IconFixture{Category: "action", Name: "home", StyleDir: "materialiconstwotone", SizeDir: "18dp", ScaleDir: "1x", Width: 18, Color: white})
	testutil.WriteCatalog(t, src, icons)

	server := &assetServer{polls: map[string]int{}}
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	f := &fixture{
		root:    root,
		out:     artifact.NewLayout(filepath.Join(root, "out")),
		lookup:  filepath.Join(root, "src"),
		server:  server,
		sandbox: &sandbox{},
		ledger:  ledger.NewMemory(),
	}
	f.config = filepath.Join(root, "iconpack.hcl")
	content := fmt.Sprintf(`
source {
  root = %q
  style "materialicons" { name = "Default" }
  style "materialiconstwotone" { name = "TwoTone" }
  size "18dp" { value = 18 }
  scale "1x" { value = 1 }
}

output {
  root        = %q
  lookup_root = %q
}

canvas {
  max_dim = 36
}

upload {
  endpoint        = %q
  api_key          = "test-key"
  creator_group_id = 4181328
  poll_interval   = "1ms"
  initial_backoff = "1ms"
  max_backoff     = "2ms"
  max_attempts    = 3
}

resolve {
  build_command = ["build", "{place}"]
  run_command   = ["run", "{script}"]
}
%s
`, src, f.out.Root, f.lookup, srv.URL, extra)
	require.NoError(t, os.WriteFile(f.config, []byte(content), 0o644))
	return f
}

func (f *fixture) app(t *testing.T, stages ...Stage) (*App, *testutil.SafeBuffer) {
	t.Helper()
	return SetupAppTest(t, &Config{ConfigPath: f.config, Stages: stages, LogFormat: "text"},
		WithRunner(f.sandbox), WithLedger(f.ledger))
}

func TestRun_FullPipeline(t *testing.T) {
	f := newFixture(t, "")
	a, logs := f.app(t)

	require.NoError(t, a.Run(context.Background()))

	// pack: 5 Default icons on a 2x2 grid make two pages, TwoTone one.
	pages, err := f.out.ListPages()
	require.NoError(t, err)
	require.Len(t, pages, 3)
	maps, err := f.out.ReadCoordinateMaps()
	require.NoError(t, err)
	assert.Len(t, maps["Default_18_1"], 5)
	assert.Equal(t, "asset/Default_18_1/page1.png", maps["Default_18_1"]["menu"].Page)
	assert.Equal(t, 18, maps["Default_18_1"]["home"].StartX)
	assert.Equal(t, 18, maps["Default_18_1"]["home"].StartY)

	// upload: one failed attempt then one success per page, in page order.
	primary, err := f.out.ReadPrimaryIDs()
	require.NoError(t, err)
	assert.Len(t, primary, 3)
	assert.Equal(t, []string{"default_18_1_p0", "default_18_1_p1", "twotone_18_1_p0"}, f.server.names)
	assert.Equal(t, int64(501), primary["asset/Default_18_1/page0.png"])
	attempts, err := f.ledger.Attempts(context.Background(), "asset/Default_18_1/page0.png")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, ledger.Failed, attempts[0].Outcome)
	assert.Equal(t, ledger.Succeeded, attempts[1].Outcome)
	assert.Equal(t, a.RunID(), attempts[1].RunID)

	// resolve: every primary id has a secondary id.
	secondary, err := f.out.ReadSecondaryIDs()
	require.NoError(t, err)
	for _, id := range primary {
		assert.Equal(t, id+1000, secondary[strconv.FormatInt(id, 10)])
	}
	require.Len(t, f.sandbox.argvs, 2)
	assert.Equal(t, []string{"build", f.out.PlacePath()}, f.sandbox.argvs[0])

	// emit: the Luau tree references every group.
	index, err := os.ReadFile(filepath.Join(f.lookup, "init.luau"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `["two_tone"]`)
	assert.Contains(t, string(index), `require(script:WaitForChild("Default_18_1"))`)
	group, err := os.ReadFile(filepath.Join(f.lookup, "Default_18_1.luau"))
	require.NoError(t, err)
	assert.Contains(t, string(group), fmt.Sprintf(`Image = "rbxassetid://%d"`, secondary[strconv.FormatInt(primary["asset/Default_18_1/page1.png"], 10)]))
	assert.Equal(t, 5, strings.Count(string(group), "ImageRectSize = Vector2.new(18, 18)"))

	snap := a.progress.snapshot()
	assert.Equal(t, AllStages, snap.Completed)
	assert.Empty(t, snap.Error)
	assert.Contains(t, logs.String(), "Pipeline finished.")
}

func TestRun_StagesResumeFromArtifacts(t *testing.T) {
	f := newFixture(t, "")

	a, _ := f.app(t, StagePack)
	require.NoError(t, a.Run(context.Background()))
	assert.NoFileExists(t, f.out.PrimaryIDsPath())

	a, _ = f.app(t, StageUpload, StageResolve)
	require.NoError(t, a.Run(context.Background()))
	assert.FileExists(t, f.out.SecondaryIDsPath())
	assert.NoDirExists(t, f.lookup)

	a, _ = f.app(t, StageEmit)
	require.NoError(t, a.Run(context.Background()))
	assert.FileExists(t, filepath.Join(f.lookup, "init.luau"))
}

func TestRun_UploadResumeSkipsKnownPages(t *testing.T) {
	f := newFixture(t, "")
	a, _ := f.app(t, StagePack)
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, f.out.WritePrimaryIDs(map[string]int64{"asset/Default_18_1/page0.png": 42}))

	a, _ = SetupAppTest(t, &Config{ConfigPath: f.config, Stages: []Stage{StageUpload}, Resume: true},
		WithRunner(f.sandbox), WithLedger(f.ledger))
	require.NoError(t, a.Run(context.Background()))

	primary, err := f.out.ReadPrimaryIDs()
	require.NoError(t, err)
	assert.Equal(t, int64(42), primary["asset/Default_18_1/page0.png"])
	assert.Len(t, primary, 3)
	assert.Equal(t, []string{"default_18_1_p1", "twotone_18_1_p0"}, f.server.names)
}

func TestRun_RepackInvalidatesResumedIDs(t *testing.T) {
	f := newFixture(t, "")
	resumed := func() *App {
		a, _ := SetupAppTest(t, &Config{ConfigPath: f.config, Stages: []Stage{StagePack, StageUpload}, Resume: true},
			WithRunner(f.sandbox), WithLedger(f.ledger))
		return a
	}

	require.NoError(t, resumed().Run(context.Background()))
	before, err := f.out.ReadPrimaryIDs()
	require.NoError(t, err)
	require.NoError(t, f.out.WriteSecondaryIDs(map[string]int64{"501": 1501}))

	// A new first icon shifts every slot of the Default group.
	testutil.WriteCatalog(t, filepath.Join(f.root, "png"), []testutil.IconFixture{
		{Category: "action", Name: "aaa", StyleDir: "materialicons", SizeDir: "18dp", ScaleDir: "1x", Width: 18, Color: color.NRGBA{A: 255}},
	})
	require.NoError(t, resumed().Run(context.Background()))

	after, err := f.out.ReadPrimaryIDs()
	require.NoError(t, err)
	require.Len(t, after, 3)
	for page, id := range after {
		assert.NotEqual(t, before[page], id, "page %s reused a stale id", page)
	}
	assert.Equal(t, 6, f.server.created)
	assert.NoFileExists(t, f.out.SecondaryIDsPath())
}

func TestRun_UploadRequiresCreator(t *testing.T) {
	f := newFixture(t, "")
	a, _ := f.app(t, StagePack)
	require.NoError(t, a.Run(context.Background()))

	cfg, err := NewConfig(Config{ConfigPath: f.config, Stages: []Stage{StageUpload}})
	require.NoError(t, err)
	a, err = NewApp(&testutil.SafeBuffer{}, cfg, hcl.NewLoader(), WithLedger(f.ledger))
	require.NoError(t, err)
	a.pipeline.Upload.CreatorGroupID = 0
	a.pipeline.Upload.CreatorUserID = 0

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Config))
	assert.Contains(t, err.Error(), "creator")
	assert.Zero(t, f.server.posts, "nothing is submitted without a creator")
}

func TestRun_EmitWithoutUploadIsLookupError(t *testing.T) {
	f := newFixture(t, "")
	a, _ := f.app(t, StagePack, StageEmit)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Lookup))
	assert.Contains(t, err.Error(), "emit stage failed")
	assert.NotEmpty(t, a.progress.snapshot().Error)
}

func TestRun_UploadWithoutPagesIsConfigError(t *testing.T) {
	f := newFixture(t, "")
	a, _ := f.app(t, StageUpload)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Config))
}

func TestRun_JSONFormat(t *testing.T) {
	f := newFixture(t, `emit { format = "json" }`)
	a, _ := f.app(t)
	require.NoError(t, a.Run(context.Background()))

	raw, err := os.ReadFile(filepath.Join(f.lookup, "lookup.json"))
	require.NoError(t, err)
	var tree map[string]map[string]map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &tree))
	assert.Len(t, tree["default"]["dp_18"]["scale_1"], 5)
	assert.Len(t, tree["two_tone"]["dp_18"]["scale_1"], 1)
}

func TestNewApp_InvalidPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("canvas { max_dim = 10 }\n"), 0o644))
	cfg, err := NewConfig(Config{ConfigPath: path})
	require.NoError(t, err)

	_, err = NewApp(&testutil.SafeBuffer{}, cfg, hcl.NewLoader())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Config))
	assert.Contains(t, err.Error(), "does not fit canvas 10")
}

func TestNewApp_OverridesFromFlags(t *testing.T) {
	f := newFixture(t, "")
	a, _ := SetupAppTest(t, &Config{ConfigPath: f.config, WorkerCount: 4, Resume: true})
	assert.Equal(t, 4, a.Pipeline().Upload.Concurrency)
	assert.True(t, a.Pipeline().Upload.Resume)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, "")
	a, _ := f.app(t)
	a.progress.begin(StageUpload, 0)
	a.progress.set(2, 5)
	mux := a.healthMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, StageUpload, snap.Stage)
	assert.Equal(t, 2, snap.Done)
	assert.Equal(t, 5, snap.Total)
	assert.Equal(t, a.RunID(), snap.RunID)
}
