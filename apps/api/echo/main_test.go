package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/billing"
	"github.com/dvergarav/acuademia/core/class"
	"github.com/dvergarav/acuademia/core/coach"
	"github.com/dvergarav/acuademia/core/enrollment"
	"github.com/dvergarav/acuademia/core/user"
	emailsvc "github.com/dvergarav/acuademia/services/email"
	inmemdb "github.com/dvergarav/acuademia/storage/inmem"
	testutil "github.com/dvergarav/acuademia/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testServer struct {
	app Server
	db  *inmemdb.DB

	usrRepo     user.Repository
	athRepo     athlete.Repository
	coachRepo   coach.Repository
	classRepo   class.Repository
	enrollRepo  enrollment.Repository
	billingRepo billing.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}

	usrRepo := inmemdb.NewUserRepository(db)
	athRepo := inmemdb.NewAthleteRepository(db)
	coachRepo := inmemdb.NewCoachRepository(db)
	classRepo := inmemdb.NewClassRepository(db)
	slotRepo := inmemdb.NewSlotRepository(db)
	linkRepo := inmemdb.NewLinkRepository(db)
	enrollRepo := inmemdb.NewEnrollmentRepository(db)
	billingRepo := inmemdb.NewBillingRepository(db)

	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Acuademia",
		SecretKey: "secret-test-key",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(usrRepo)
	athSvc := athlete.NewService(athRepo)
	classSvc := class.NewService(classRepo, slotRepo, linkRepo, enrollRepo, logger)
	coachSvc := coach.NewService(coachRepo, classSvc)
	billingSvc := billing.NewService(billingRepo)
	enrollSvc := enrollment.NewService(athRepo, classRepo, enrollRepo, billingRepo, mailSvc, logger)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	class.InitValidators(validate, translator)

	app := NewServer(&ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		AthleteSvc:     athSvc,
		CoachSvc:       coachSvc,
		ClassSvc:       classSvc,
		EnrollmentSvc:  enrollSvc,
		BillingSvc:     billingSvc,
	})

	return &testServer{
		app:         app,
		db:          db,
		usrRepo:     usrRepo,
		athRepo:     athRepo,
		coachRepo:   coachRepo,
		classRepo:   classRepo,
		enrollRepo:  enrollRepo,
		billingRepo: billingRepo,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// getToken signs a token for usr the same way the login endpoint does.
func (ts *testServer) getToken(t *testing.T, usr user.User) string {
	t.Helper()

	srv := ts.app.(*server)
	token, err := srv.jwt.generateToken(srv.jwt.getUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	admin := testutil.CreateUser(t, ts.usrRepo, "Admin", "admin", "admin@test.ve", "", user.AdminRoles, true)
	return ts.getToken(t, admin)
}

func (ts *testServer) staffToken(t *testing.T) string {
	t.Helper()
	staff := testutil.CreateUser(t, ts.usrRepo, "Staff", "staff", "staff@test.ve", "", user.StaffRoles, true)
	return ts.getToken(t, staff)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTable(t *testing.T, ts *testServer, tests []httpTest) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			ts.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
