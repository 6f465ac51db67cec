package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	blobUsecases "github.com/orris-inc/ticketflow/internal/application/blob/usecases"
	permissionUsecases "github.com/orris-inc/ticketflow/internal/application/permission/usecases"
	schemaUsecases "github.com/orris-inc/ticketflow/internal/application/schema/usecases"
	ticketUsecases "github.com/orris-inc/ticketflow/internal/application/ticket/usecases"
	userUsecases "github.com/orris-inc/ticketflow/internal/application/user/usecases"
	"github.com/orris-inc/ticketflow/internal/infrastructure/repository"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type repositories struct {
	schemaRepo     *repository.SchemaRepository
	ticketRepo     *repository.TicketRepository
	eventRepo      *repository.EventRepository
	submissionRepo *repository.SubmissionRepository
	userRepo       *repository.UserRepository
	roleRepo       *repository.RoleRepository
	blobRepo       *repository.BlobRepository
	txManager      *db.TransactionManager
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		schemaRepo:     repository.NewSchemaRepository(gdb, log),
		ticketRepo:     repository.NewTicketRepository(gdb, log),
		eventRepo:      repository.NewEventRepository(gdb),
		submissionRepo: repository.NewSubmissionRepository(gdb),
		userRepo:       repository.NewUserRepository(gdb, log),
		roleRepo:       repository.NewRoleRepository(gdb),
		blobRepo:       repository.NewBlobRepository(gdb),
		txManager:      db.NewTransactionManager(gdb),
	}
}

// UseCases exposes the wired use cases to the HTTP handlers and the CLI.
type UseCases struct {
	PublishSchema       *schemaUsecases.PublishSchemaUseCase
	GetSchema           *schemaUsecases.GetSchemaUseCase
	ListSchemas         *schemaUsecases.ListSchemasUseCase
	ProbableAssignUsers *schemaUsecases.ProbableAssignUsersUseCase

	CreateTicket     *ticketUsecases.CreateTicketUseCase
	GetTicket        *ticketUsecases.GetTicketUseCase
	GetTicketHistory *ticketUsecases.GetTicketHistoryUseCase
	ListTickets      *ticketUsecases.ListTicketsUseCase
	ProcessTicket    *ticketUsecases.ProcessTicketUseCase

	CreateUser       *userUsecases.CreateUserUseCase
	ListUsers        *userUsecases.ListUsersUseCase
	UpdateUserStatus *userUsecases.UpdateUserStatusUseCase

	CreateRole           *permissionUsecases.CreateRoleUseCase
	ListRoles            *permissionUsecases.ListRolesUseCase
	UpdateRoleMembership *permissionUsecases.UpdateRoleMembershipUseCase

	RegisterBlob *blobUsecases.RegisterBlobUseCase
}

func (c *Container) initUseCases() {
	r := c.repos
	log := c.log
	resolver := assignment.NewResolver(r.userRepo, r.roleRepo, c.enforcer, log)

	ucs := &UseCases{
		PublishSchema:       schemaUsecases.NewPublishSchemaUseCase(r.schemaRepo, r.userRepo, r.roleRepo, log),
		GetSchema:           schemaUsecases.NewGetSchemaUseCase(r.schemaRepo, log),
		ListSchemas:         schemaUsecases.NewListSchemasUseCase(r.schemaRepo, c.enforcer, log),
		ProbableAssignUsers: schemaUsecases.NewProbableAssignUsersUseCase(r.schemaRepo, resolver, log),

		CreateTicket:     ticketUsecases.NewCreateTicketUseCase(r.schemaRepo, r.ticketRepo, r.eventRepo, r.userRepo, resolver, r.txManager, log),
		GetTicket:        ticketUsecases.NewGetTicketUseCase(r.schemaRepo, r.ticketRepo, resolver, c.enforcer, log),
		GetTicketHistory: ticketUsecases.NewGetTicketHistoryUseCase(r.schemaRepo, r.ticketRepo, r.eventRepo, resolver, c.enforcer, log),
		ListTickets:      ticketUsecases.NewListTicketsUseCase(r.schemaRepo, r.ticketRepo, c.enforcer, c.enforcer, log),
		ProcessTicket: ticketUsecases.NewProcessTicketUseCase(
			r.schemaRepo, r.ticketRepo, r.eventRepo, r.submissionRepo, r.blobRepo,
			resolver, c.enforcer, c.locker, r.txManager, log,
		),

		CreateUser:       userUsecases.NewCreateUserUseCase(r.userRepo, log),
		ListUsers:        userUsecases.NewListUsersUseCase(r.userRepo, log),
		UpdateUserStatus: userUsecases.NewUpdateUserStatusUseCase(r.userRepo, log),

		CreateRole:           permissionUsecases.NewCreateRoleUseCase(r.roleRepo, log),
		ListRoles:            permissionUsecases.NewListRolesUseCase(r.roleRepo, c.enforcer, log),
		UpdateRoleMembership: permissionUsecases.NewUpdateRoleMembershipUseCase(r.roleRepo, r.userRepo, c.enforcer, log),

		RegisterBlob: blobUsecases.NewRegisterBlobUseCase(r.blobRepo, log),
	}

	if c.eventBus != nil {
		ucs.CreateTicket.SetEventPublisher(c.eventBus)
		ucs.ProcessTicket.SetEventPublisher(c.eventBus)
	}

	c.ucs = ucs
}
