package validation

// RegionCommunes maps each Chilean region to its communes. Registration and
// profile forms must pick a valid pair.
var RegionCommunes = map[string][]string{
	"Arica y Parinacota": {"Arica", "Camarones", "Putre", "General Lagos"},
	"Tarapacá":           {"Iquique", "Alto Hospicio", "Pozo Almonte", "Pica", "Huara", "Colchane"},
	"Antofagasta":        {"Antofagasta", "Mejillones", "Sierra Gorda", "Taltal", "Calama", "Ollagüe", "San Pedro de Atacama"},
	"Atacama":            {"Copiapó", "Caldera", "Vallenar", "Huasco", "Chañaral", "Diego de Almagro", "Tierra Amarilla"},
	"Coquimbo":           {"La Serena", "Coquimbo", "Andacollo", "La Higuera", "Ovalle", "Combarbalá", "Monte Patria", "Punitaqui", "Illapel"},
	"Valparaíso": {"Valparaíso", "Viña del Mar", "Quilpué", "Villa Alemana", "San Antonio", "Quintero", "Puchuncaví",
		"Casablanca", "Juan Fernández", "San Felipe", "Los Andes", "Calle Larga", "Rinconada", "Santa María",
		"La Ligua", "Cabildo", "Zapallar", "Petorca", "Papudo"},
	"Metropolitana": {"Santiago", "Cerrillos", "Cerro Navia", "Conchalí", "El Bosque", "Estación Central", "Huechuraba",
		"Independencia", "La Cisterna", "La Florida", "La Granja", "La Pintana", "La Reina", "Las Condes",
		"Lo Barnechea", "Lo Espejo", "Lo Prado", "Macul", "Maipú", "Ñuñoa", "Pedro Aguirre Cerda", "Peñalolén",
		"Providencia", "Pudahuel", "Quilicura", "Quinta Normal", "Recoleta", "Renca", "San Joaquín", "San Miguel",
		"San Ramón", "Vitacura", "Puente Alto", "Pirque", "San José de Maipo", "Colina", "Lampa", "Tiltil",
		"San Bernardo", "Buin", "Calera de Tango", "Paine", "Melipilla", "Alhué", "Curacaví", "María Pinto",
		"San Pedro", "Talagante", "El Monte", "Isla de Maipo", "Padre Hurtado", "Peñaflor"},
}

// ValidRegionCommune reports whether the commune belongs to the region. Empty
// values pass; required-ness is decided by the entity rule set.
func ValidRegionCommune(region, commune string) bool {
	if region == "" && commune == "" {
		return true
	}
	communes, ok := RegionCommunes[region]
	if !ok {
		return false
	}
	if commune == "" {
		return true
	}
	for _, c := range communes {
		if c == commune {
			return true
		}
	}
	return false
}
