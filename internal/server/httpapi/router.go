package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/gorilla/mux"
)

// Options wires the router to its collaborators.
type Options struct {
	Users          UserService
	Guards         GuardService
	Admins         AdminService
	Spaces         SpaceService
	Gate           *Gate
	Metrics        *Metrics
	DB             Pinger
	AllowedOrigins []string
	Logger         logging.Logger
}

// NewRouter builds the complete HTTP handler: /api routes, health, metrics
// and docs, wrapped in the recovery, request id, access log and CORS
// middlewares.
func NewRouter(o Options) (http.Handler, error) {
	d, err := newDocs()
	if err != nil {
		return nil, err
	}

	h := &handlers{
		users:  o.Users,
		guards: o.Guards,
		admins: o.Admins,
		spaces: o.Spaces,
		db:     o.DB,
		logger: o.Logger.With("module", "http"),
	}
	g := o.Gate

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.notFound)
	if o.Metrics != nil {
		r.Use(o.Metrics.Instrument)
		r.Handle("/metrics", o.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/docs", d.ui).Methods(http.MethodGet)
	r.HandleFunc("/docs/openapi.yaml", d.yaml).Methods(http.MethodGet)
	r.HandleFunc("/docs/openapi.json", d.jsonDoc).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/usuarios/registrar", h.registerUser).Methods(http.MethodPost)
	api.HandleFunc("/usuarios/confirmar-email/{token}", h.confirmEmail).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/login", h.loginUser).Methods(http.MethodPost)
	api.HandleFunc("/usuarios/recuperar-password", h.requestPasswordReset).Methods(http.MethodPost)
	api.HandleFunc("/usuarios/recuperar-password/{token}", h.checkResetToken).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/nueva-password/{token}", h.resetPassword).Methods(http.MethodPost)
	api.Handle("/usuarios/perfil", g.Protect(auth.RoleUser, h.userProfile)).Methods(http.MethodGet)
	api.Handle("/usuarios/actualizar-password", g.Protect(auth.RoleUser, h.changeUserPassword)).Methods(http.MethodPut)
	api.Handle("/usuarios/{id}", g.Protect(auth.RoleUser, h.updateUserProfile)).Methods(http.MethodPut)

	api.HandleFunc("/guardias/login", h.loginGuard).Methods(http.MethodPost)
	api.Handle("/guardias/perfil", g.Protect(auth.RoleGuard, h.guardProfile)).Methods(http.MethodGet)
	api.Handle("/guardias/parqueaderos-disponibles", g.Protect(auth.RoleGuard, h.guardActiveSpaces)).Methods(http.MethodGet)
	api.Handle("/guardias/enviar-parqueaderos-disponibles", g.Protect(auth.RoleGuard, h.notifyAvailableSpaces)).Methods(http.MethodPost)
	api.Handle("/guardias/actualizar-perfil/{id}", g.Protect(auth.RoleGuard, h.updateGuardProfile)).Methods(http.MethodPut)

	api.HandleFunc("/administrador/login", h.loginAdmin).Methods(http.MethodPost)
	api.Handle("/administrador/registrar", g.Protect(auth.RoleAdministrator, h.registerAdmin)).Methods(http.MethodPost)
	api.Handle("/administrador/listar-usuarios", g.Protect(auth.RoleAdministrator, h.listUsers)).Methods(http.MethodGet)
	api.Handle("/administrador/eliminar_usuario/{id}", g.Protect(auth.RoleAdministrator, h.deleteUser)).Methods(http.MethodDelete)
	api.Handle("/administrador/listar-guardias", g.Protect(auth.RoleAdministrator, h.listGuards)).Methods(http.MethodGet)
	api.Handle("/administrador/cambiar-estado-guardia/{id}", g.Protect(auth.RoleAdministrator, h.deactivateGuard)).Methods(http.MethodPatch)
	api.Handle("/administrador/disponibilidad-parqueadero", g.Protect(auth.RoleAdministrator, h.adminAvailableSpaces)).Methods(http.MethodGet)
	api.Handle("/administrador/registrar-guardia", g.Protect(auth.RoleAdministrator, h.registerGuard)).Methods(http.MethodPost)

	spaces := api.PathPrefix("/parqueaderos").Subrouter()
	spaces.Use(g.AdminOnly)
	spaces.HandleFunc("/registrar", h.createSpace).Methods(http.MethodPost)
	spaces.HandleFunc("", h.listSpaces).Methods(http.MethodGet)
	spaces.HandleFunc("/disponibilidad", h.listAvailableSpaces).Methods(http.MethodGet)
	spaces.HandleFunc("/{id}", h.getSpace).Methods(http.MethodGet)
	spaces.HandleFunc("/{id}", h.updateSpace).Methods(http.MethodPut)
	spaces.HandleFunc("/{id}", h.setSpaceState).Methods(http.MethodPatch)

	return Chain(
		Recovery(h.logger),
		RequestID,
		AccessLog(h.logger),
		CORS(o.AllowedOrigins),
	)(r), nil
}
