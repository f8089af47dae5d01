package api

import (
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/authapp"
	courseservice "github.com/burenotti/go_academy_backend/internal/app/course"
	fitnessservice "github.com/burenotti/go_academy_backend/internal/app/fitness"
	goalservice "github.com/burenotti/go_academy_backend/internal/app/goal"
	mentorshipservice "github.com/burenotti/go_academy_backend/internal/app/mentorship"
	profileapp "github.com/burenotti/go_academy_backend/internal/app/profile"
	progressservice "github.com/burenotti/go_academy_backend/internal/app/progress"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"log/slog"
	"net"
	"strconv"
)

type Option func(*Server)

func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func DBContext(db storage.DBContext) Option {
	return func(s *Server) {
		s.db = db
	}
}

func AuthService(service *authapp.Service) Option {
	return func(s *Server) {
		s.authService = service
	}
}

func ProfileService(service *profileapp.Service) Option {
	return func(s *Server) {
		s.profileService = service
	}
}

func CourseService(service *courseservice.Service) Option {
	return func(s *Server) {
		s.courseService = service
	}
}

func FitnessService(service *fitnessservice.Service) Option {
	return func(s *Server) {
		s.fitnessService = service
	}
}

func GoalService(service *goalservice.Service) Option {
	return func(s *Server) {
		s.goalService = service
	}
}

func MentorshipService(service *mentorshipservice.Service) Option {
	return func(s *Server) {
		s.mentorshipService = service
	}
}

func ProgressService(service *progressservice.Service) Option {
	return func(s *Server) {
		s.progressService = service
	}
}

func MessageBus(bus unitofwork.MessageBus) Option {
	return func(s *Server) {
		s.msgBus = bus
	}
}
